// Package api implements the HTTP Inspection API (component K): a
// read-mostly bridge exposing VehicleState, the Telemetry Device, the
// Command Service, and Prometheus metrics over HTTP for external
// dashboards and tooling.
//
// Grounded on CarlosSprekelsen-radioContainer/rcc's internal/api package
// (the unified Response envelope in response.go, the Server/RegisterRoutes
// split in server.go/routes.go), adapted from radio capability/control
// routes to spec.md §6's device/command surfaces.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Response is the unified JSON envelope for every non-streaming route.
type Response struct {
	Result        string      `json:"result"`
	Data          interface{} `json:"data,omitempty"`
	Code          string      `json:"code,omitempty"`
	Message       string      `json:"message,omitempty"`
	CorrelationID string      `json:"correlationId"`
}

func SuccessResponse(data interface{}) *Response {
	return &Response{Result: "ok", Data: data, CorrelationID: generateCorrelationID()}
}

func ErrorResponse(code, message string) *Response {
	return &Response{Result: "error", Code: code, Message: message, CorrelationID: generateCorrelationID()}
}

// WriteSuccess writes a 200 response wrapping data in the envelope.
func WriteSuccess(w http.ResponseWriter, data interface{}) {
	writeResponse(w, http.StatusOK, SuccessResponse(data))
}

// WriteError writes an error response wrapping code/message in the envelope.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	writeResponse(w, statusCode, ErrorResponse(code, message))
}

func writeResponse(w http.ResponseWriter, statusCode int, response *Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "internal server error: %v", err)
	}
}

func generateCorrelationID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
