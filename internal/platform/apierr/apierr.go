// Package apierr is the error model shared by every handler: a coded error
// type, its HTTP status mapping and the JSON envelope the API replies with.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeForbidden       Code = "FORBIDDEN"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func Invalid(msg string) *APIError   { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func NotFound(msg string) *APIError  { return &APIError{Code: CodeNotFound, Message: msg} }
func Forbidden(msg string) *APIError { return &APIError{Code: CodeForbidden, Message: msg} }
func Conflict(msg string) *APIError  { return &APIError{Code: CodeConflict, Message: msg} }
func Internal(msg string) *APIError  { return &APIError{Code: CodeInternal, Message: msg} }

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodeForbidden:
			return http.StatusForbidden
		case CodeConflict:
			return http.StatusConflict
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

// DTO is the wire shape of an error reply: {"error":{"code","message"}}.
type DTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func Body(code Code, msg string) DTO {
	var e DTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func From(err error) DTO {
	var api *APIError
	if errors.As(err, &api) {
		return Body(api.Code, api.Message)
	}
	return Body(CodeInternal, err.Error())
}
