package handlers

import (
	"errors"
	"net/http"
)

type Handler func(http.ResponseWriter, *http.Request) Result

type Result struct {
	Error error
	Code  int
	Body  interface{}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Detail string       `json:"detail"`
	Errors []FieldError `json:"errors,omitempty"`
}

func Unprocessable(detail string, fields ...FieldError) Result {
	return Result{
		Code: http.StatusUnprocessableEntity,
		Body: ValidationErrorResponse{Detail: detail, Errors: fields},
	}
}

func InternalError(error error, message string) Result {
	return Result{
		Error: errors.Join(errors.New(message), error),
		Code:  http.StatusInternalServerError,
		Body:  ErrorResponse{"Internal server error."},
	}
}

func Ok(body interface{}) Result {
	return Result{
		Code: http.StatusOK,
		Body: body,
	}
}
