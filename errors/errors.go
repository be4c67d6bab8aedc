package errors

import (
	"fmt"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is the error type surfaced by services and handlers. It pairs a
// user-facing message with the HTTP status the handler should reply with.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

var (
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrNotFound            = New("resource not found", http.StatusNotFound)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)

	// ErrInsufficientBalance rejects a redemption that exceeds the user's
	// current point balance. User-correctable, not retried.
	ErrInsufficientBalance = New("insufficient reward balance", http.StatusBadRequest)

	// ErrTaskConflict rejects a claim on a task another collector already
	// holds or that has reached a terminal status.
	ErrTaskConflict = New("task already claimed or closed", http.StatusConflict)
)

// ErrorHandler is passed to the rate limiter for over-limit responses.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"errors": fmt.Sprintf("too many requests, try again in %s", time.Until(info.ResetTime).Round(time.Second)),
	})
	c.Abort()
}
