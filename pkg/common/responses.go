package common

import (
	"encoding/json"
	"net/http"
	"time"
)

// APIResponse is the envelope of successful JSON responses
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *MetaInfo   `json:"meta,omitempty"`
}

// MetaInfo contains metadata about the response
type MetaInfo struct {
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Count     *int   `json:"count,omitempty"`
}

// RespondJSON sends data wrapped in an APIResponse
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

// RespondList sends a collection together with its size
func RespondList(w http.ResponseWriter, requestID string, data interface{}, count int) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta: &MetaInfo{
			RequestID: requestID,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Count:     &count,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
