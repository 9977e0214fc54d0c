package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/semantic-faq/pkg/errors"
)

// Response codes rendered in {"error":{"code": ...}} besides the domain codes.
const (
	codeInvalidRequest = "invalid_request"
	codeAlreadyExists  = "already_exists"
	codeNotFound       = "not_found"
	codeInternal       = "internal_error"
)

// HTTPError is an error response: status, machine code and a client-safe message.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *HTTPError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewHTTPError builds an HTTPError.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

func badRequest(err error) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, codeInvalidRequest, errMessage(err), err)
}

func questionNotFound() *HTTPError {
	return NewHTTPError(http.StatusNotFound, codeNotFound, "question not found", nil)
}

// domainError maps service error codes onto HTTP statuses; unknown errors get
// a 500 with the fallback code.
func domainError(err error, fallback string) *HTTPError {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidInput:
		return badRequest(err)
	case apperrors.CodeEncoder:
		return NewHTTPError(http.StatusBadGateway, apperrors.CodeEncoder, "encoder unavailable", err)
	case apperrors.CodeStorage:
		return NewHTTPError(http.StatusInternalServerError, apperrors.CodeStorage, "failed to persist entries", err)
	case apperrors.CodeUnauthorized:
		return NewHTTPError(http.StatusForbidden, apperrors.CodeUnauthorized, errMessage(err), err)
	case apperrors.CodeInvalidToken:
		return NewHTTPError(http.StatusForbidden, apperrors.CodeInvalidToken, errMessage(err), err)
	}
	return NewHTTPError(http.StatusInternalServerError, fallback, errMessage(err), err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return domainError(err, codeInternal)
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    codeInternal,
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
