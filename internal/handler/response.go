package handler

import apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"

type Response struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message,omitempty"`
	Data    interface{}            `json:"data,omitempty"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

// NewMessageResponse is a success response with a human-readable message.
func NewMessageResponse(message string, data interface{}) *Response {
	return &Response{
		Status:  "success",
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(message string, fields ...apperrors.FieldError) *Response {
	return &Response{
		Status:  "error",
		Message: message,
		Errors:  fields,
	}
}
