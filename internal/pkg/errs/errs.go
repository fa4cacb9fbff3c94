/*
Package errs provides the coded error type shared by the chat core and the HTTP layer.

Each code maps to a user-facing message template and an HTTP status. Rename
rejections travel to the requesting user as a chat notice built from the
message; HTTP handlers turn the same type into a JSON error envelope.
*/
package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"crewchat/internal/pkg/logx"
)

// CustomError carries a business code, a user-facing message and an HTTP status.
type CustomError struct {
	Code    int
	Message string
	Status  int
}

// Error implements the error interface.
func (e CustomError) Error() string {
	return fmt.Sprintf("Error Code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// NewError builds a *CustomError from a registered code. Details fill the
// printf verbs of the message template; unknown codes collapse to ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	templateErr, ok := errorMap[code]
	if !ok {
		logx.Error(
			fmt.Errorf("unknown error code %d", code),
			"Unknown error code requested",
			"requested_code", code,
		)
		templateErr = errorMap[ErrUnknown]
	}

	customErr := templateErr

	if customErr.Status == 0 {
		customErr.Status = http.StatusOK
	}

	if len(details) > 0 {
		if strings.Contains(customErr.Message, "%") {
			customErr.Message = fmt.Sprintf(customErr.Message, details...)
		} else if cause, ok := details[0].(error); ok {
			logx.Error(cause, "Error created with underlying cause", "code", customErr.Code)
		} else {
			logx.Warn("Details provided for error without formatting placeholders. Details ignored.", "code", customErr.Code)
		}
	}

	return &customErr
}

// Is reports whether err carries the given code.
func Is(err error, code int) bool {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Code == code
	}
	return false
}
