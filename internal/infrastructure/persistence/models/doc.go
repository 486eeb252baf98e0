// Package models contains the GORM persistence models of the API.
// Domain entities stay free of ORM tags: repositories convert between
// the two with the ToDomain and FromDomain helpers defined here.
package models
