package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// ErrorBody is the shape of every non-2xx JSON response.
type ErrorBody struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type PageBody struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type MessageBody struct {
	Message string      `json:"message"`
	Record  interface{} `json:"record,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		fallback := ErrorBody{
			Error: "Failed to encode response",
			Code:  "ENCODING_ERROR",
		}
		_ = json.NewEncoder(w).Encode(fallback)
	}
}

// Success responses
func Success(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

func SuccessWithMessage(w http.ResponseWriter, message string, record interface{}) {
	writeJSON(w, http.StatusOK, MessageBody{
		Message: message,
		Record:  record,
	})
}

func SuccessWithPagination(w http.ResponseWriter, data interface{}, page, limit int, total int64) {
	writeJSON(w, http.StatusOK, PageBody{
		Data: data,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

// File writes content as a download. The body is written in one call.
func File(w http.ResponseWriter, contentType, fileName string, content []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// Error responses
func BadRequest(w http.ResponseWriter, message string, details map[string]string) {
	writeJSON(w, http.StatusBadRequest, ErrorBody{
		Error:   message,
		Code:    "BAD_REQUEST",
		Details: details,
	})
}

func IllegalTransition(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorBody{
		Error: message,
		Code:  "ILLEGAL_STATE_TRANSITION",
	})
}

func ValidationError(w http.ResponseWriter, message string, details map[string]string) {
	writeJSON(w, http.StatusBadRequest, ErrorBody{
		Error:   message,
		Code:    "VALIDATION_ERROR",
		Details: details,
	})
}

func Unauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, ErrorBody{
		Error: message,
		Code:  "UNAUTHORIZED",
	})
}

func Forbidden(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusForbidden, ErrorBody{
		Error: message,
		Code:  "FORBIDDEN",
	})
}

func NotFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, ErrorBody{
		Error: message,
		Code:  "NOT_FOUND",
	})
}

func InternalServerError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, ErrorBody{
		Error: message,
		Code:  "INTERNAL_SERVER_ERROR",
	})
}
