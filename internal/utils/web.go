package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/lumeon-dev/accounts/internal/errors"
	"github.com/lumeon-dev/accounts/internal/logger"
)

// Response is the uniform JSON envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// WriteSuccess writes {success:true, message, data} with the given status.
func WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{Success: true, Message: message, Data: data}); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// WriteError writes {success:false, error} using the error's status code.
// Errors without a status code are unexpected and surface as 500.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if e, ok := err.(*errors.ErrorWithStatusCode); ok {
		status = e.StatusCode
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(Response{Success: false, Error: err.Error()}); encErr != nil {
		logger.Log.Error("failed to encode error response", "error", encErr)
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeValidate decodes a JSON request body and enforces required fields.
func DecodeValidate(r io.Reader, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("invalid request body", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: http.StatusBadRequest}
	}
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("request body failed validation", "error", err)
		return errors.ErrMissingRequiredInputs
	}
	return nil
}
