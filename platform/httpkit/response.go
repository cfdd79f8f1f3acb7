// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"leadscore_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

const msgInternal = "internal server error"

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Detail  string      `json:"detail"`
	Kind    string      `json:"kind,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// HandleError maps domain errors to HTTP responses.
// A typed *apperr.Error anywhere in the chain decides the status through its Kind.
// Anything else is an unclassified failure and becomes a generic 500.
// The error is attached to the gin context so RequestLogger can report it.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	_ = c.Error(err)

	if domainErr, ok := apperr.As(err); ok {
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Detail:  domainErr.Message,
			Kind:    domainErr.Kind.String(),
			Details: domainErr.Details,
		})
		return true
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Detail: msgInternal,
		Kind:   apperr.KindInternal.String(),
	})
	return true
}
