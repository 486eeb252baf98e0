package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/bilemo/api/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes binding errors report JSON field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// ValidationDetails converts binding errors into response details.
// It returns nil when err is not a validator error.
func ValidationDetails(err error) []dto.ValidationDetail {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	details := make([]dto.ValidationDetail, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, dto.ValidationDetail{
			Field:   fieldPath(e),
			Message: validationMessage(e),
		})
	}
	return details
}

// fieldPath drops the root struct name: "CreateClientRequest.customers[0].email" -> "customers[0].email"
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return e.Field()
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Ce champ est obligatoire"
	case "email":
		return "L'email doit être valide"
	case "url":
		return "L'URL doit être valide"
	case "min":
		if e.Kind() == reflect.String {
			return "Doit faire au moins " + e.Param() + " caractères"
		}
		return "Doit être supérieur ou égal à " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Doit faire au plus " + e.Param() + " caractères"
		}
		return "Doit être inférieur ou égal à " + e.Param()
	case "gt":
		return "Doit être supérieur à " + e.Param()
	case "gte":
		return "Doit être supérieur ou égal à " + e.Param()
	case "oneof":
		return "Doit être l'une des valeurs : " + e.Param()
	default:
		return "Valeur invalide"
	}
}
