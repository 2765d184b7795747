package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/streamtube/backend/internal/apperror"
)

// uuidParam returns the named path parameter after checking it is a
// well-formed id. Malformed ids stop here; letting them through would
// surface as opaque cast errors from the store.
func uuidParam(c *gin.Context, name string) (string, error) {
	value := c.Param(name)
	if _, err := uuid.Parse(value); err != nil {
		return "", apperror.InvalidParameter("Invalid " + name)
	}
	return value, nil
}

// uuidQuery validates an optional id-valued query parameter. Absent is
// fine; present but malformed is not.
func uuidQuery(c *gin.Context, name string) (string, error) {
	value := c.Query(name)
	if value == "" {
		return "", nil
	}
	if _, err := uuid.Parse(value); err != nil {
		return "", apperror.InvalidParameter("Invalid " + name)
	}
	return value, nil
}
