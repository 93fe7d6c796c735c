package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// RespondWithJSON sends a JSON response with the given status code
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// If encoding fails, log it but don't try to send another response
		// as headers have already been written
		slog.Error("Failed to encode JSON response", "error", err, "statusCode", statusCode)
		return
	}
}

// RespondWithSuccess sends a JSON payload with the given 2xx status code
func RespondWithSuccess(w http.ResponseWriter, statusCode int, payload interface{}) {
	RespondWithJSON(w, statusCode, payload)
}

// RespondWithError sends a JSON error response with the given status code
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithErrorCode(w, statusCode, "ERROR", message)
}

// RespondWithErrorCode sends a JSON error response with an explicit error code
func RespondWithErrorCode(w http.ResponseWriter, statusCode int, code, message string) {
	response := ErrorResponse{}
	response.Error.Code = code
	response.Error.Message = message

	RespondWithJSON(w, statusCode, response)
}

// ContainsError checks if an error message contains a specific substring
func ContainsError(err error, substr string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), substr)
}
