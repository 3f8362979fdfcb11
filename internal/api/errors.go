// Package api implements the HTTP surface of the multi-CURIE query service:
// request routing, the /query handler pipeline, and structured error
// responses.
//
// Error codes follow the pattern MODULE_ERROR_TYPE (e.g.
// "QUERY_GRAPH_INVALID"). Every error response optionally carries the
// captured log lines for the request's query id, so a caller investigating
// a failed query does not need separate access to server logs.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/monarch-initiative/semsim-mcq/internal/querylog"
)

// Error codes, grouped by the three-member taxonomy this service's queries
// can fail under: the query graph failed validation, the upstream
// similarity service could not be reached or returned something unusable,
// or assembling the TRAPI response itself failed.
const (
	ErrQueryGraphInvalid     = "QUERY_GRAPH_INVALID"
	ErrSimilarityUnavailable = "SIMILARITY_SERVICE_UNAVAILABLE"
	ErrSimilarityBadResponse = "SIMILARITY_SERVICE_BAD_RESPONSE"
	ErrAssemblyFailed        = "INTERNAL_ASSEMBLY_ERROR"

	ErrNotFound         = "NOT_FOUND"
	ErrMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrNotImplemented   = "NOT_IMPLEMENTED"
	ErrInternalError    = "INTERNAL_ERROR"
	ErrGatewayTimeout   = "GATEWAY_TIMEOUT"
)

// errorMessages holds the default message for each error code. Unlike the
// bilingual table this was grounded on, this service has no locale
// requirement, so each code has exactly one message.
var errorMessages = map[string]string{
	ErrQueryGraphInvalid:     "The query graph is invalid or does not match the supported multi-CURIE query pattern.",
	ErrSimilarityUnavailable: "The upstream semantic similarity service could not be reached.",
	ErrSimilarityBadResponse: "The upstream semantic similarity service returned a response that could not be parsed.",
	ErrAssemblyFailed:        "Failed to assemble a TRAPI response from the similarity results.",
	ErrNotFound:              "The requested resource was not found.",
	ErrMethodNotAllowed:      "The HTTP method is not allowed for this resource.",
	ErrNotImplemented:        "This endpoint is not implemented.",
	ErrInternalError:         "An internal error occurred while processing the request.",
	ErrGatewayTimeout:        "The request took too long to process.",
}

// httpStatusForCode maps an error code to its HTTP status.
var httpStatusForCode = map[string]int{
	ErrQueryGraphInvalid:     http.StatusBadRequest,
	ErrSimilarityUnavailable: http.StatusBadGateway,
	ErrSimilarityBadResponse: http.StatusBadGateway,
	ErrAssemblyFailed:        http.StatusInternalServerError,
	ErrNotFound:              http.StatusNotFound,
	ErrMethodNotAllowed:      http.StatusMethodNotAllowed,
	ErrNotImplemented:        http.StatusNotImplemented,
	ErrInternalError:         http.StatusInternalServerError,
	ErrGatewayTimeout:        http.StatusGatewayTimeout,
}

// APIError is a structured error response body.
type APIError struct {
	Code       string             `json:"code"`
	Message    string             `json:"message"`
	Details    string             `json:"details,omitempty"`
	QueryID    string             `json:"query_id,omitempty"`
	Logs       []querylog.Record  `json:"logs,omitempty"`
	httpStatus int
}

// NewAPIError creates an APIError for code, falling back to
// ErrInternalError for an unrecognized code.
func NewAPIError(code string) *APIError {
	msg, ok := errorMessages[code]
	status, statusOK := httpStatusForCode[code]
	if !ok || !statusOK {
		code = ErrInternalError
		msg = errorMessages[ErrInternalError]
		status = http.StatusInternalServerError
	}
	return &APIError{Code: code, Message: msg, httpStatus: status}
}

// WithDetails attaches free-form detail text and returns the receiver.
func (e *APIError) WithDetails(details string) *APIError {
	e.Details = details
	return e
}

// WithQueryLogs attaches the query id and its captured log lines, so the
// caller can see what happened without separate log access.
func (e *APIError) WithQueryLogs(queryID string, logs []querylog.Record) *APIError {
	e.QueryID = queryID
	e.Logs = logs
	return e
}

// Status returns the HTTP status this error should be written with.
func (e *APIError) Status() int {
	if e.httpStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.httpStatus
}

// WriteJSON writes the error as a JSON response body under the
// conventional {"error": {...}} envelope.
func (e *APIError) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Status())
	json.NewEncoder(w).Encode(map[string]*APIError{"error": e})
}

// WriteError is a convenience for handlers that just need to report a bare
// error code with no details.
func WriteError(w http.ResponseWriter, code string) {
	NewAPIError(code).WriteJSON(w)
}

// WriteErrorWithDetails reports an error code with additional detail text.
func WriteErrorWithDetails(w http.ResponseWriter, code, details string) {
	NewAPIError(code).WithDetails(details).WriteJSON(w)
}
