package main

import (
	"os"

	"github.com/bilemo/api/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
