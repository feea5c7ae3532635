package geocoder

import (
	"fmt"
	"net/http"

	"address-search/internal/models"
)

// LookupError describes a failed geocoder call.
type LookupError struct {
	Kind    models.ErrorKind
	Message string
	Err     error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geocoder: %s: %v", e.Message, e.Err)
	}
	return "geocoder: " + e.Message
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

func rateLimitedError(message string) *LookupError {
	return &LookupError{Kind: models.ErrorKindRateLimited, Message: message, Err: models.ErrRateLimited}
}

func otherError(message string, err error) *LookupError {
	return &LookupError{Kind: models.ErrorKindOther, Message: message, Err: err}
}

// ClassifyHTTPStatus turns a non-200 upstream status into a LookupError.
func ClassifyHTTPStatus(statusCode int) *LookupError {
	if statusCode == http.StatusTooManyRequests {
		return rateLimitedError(fmt.Sprintf("upstream status %d", statusCode))
	}
	return otherError(fmt.Sprintf("upstream status %d", statusCode), nil)
}
