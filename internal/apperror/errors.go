package apperror

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidMove     = errors.New("invalid move")
	ErrInvalidPlayers  = errors.New("players must be different")
	ErrExpired         = errors.New("expired or already consumed")
	ErrConflict        = errors.New("conflict")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// GenericMessage is returned to clients for errors that must not leak internal detail.
const GenericMessage = "Generic error occurred"

// Status maps an error to the HTTP status returned to clients.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrInvalidMove), errors.Is(err, ErrExpired):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidPlayers), errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Write responds with the mapped status. Unknown errors are logged and replaced by
// GenericMessage.
func Write(c *gin.Context, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("[API] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": GenericMessage})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
