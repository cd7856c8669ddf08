package pkg

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ContentType = struct {
	JSON string
	Text string
}{
	JSON: "application/json",
	Text: "text/plain; charset=utf-8",
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte, status int) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(status)

	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response [%d bytes]: %s", len(message), err)
	}
}

func WriteTextResponse(w http.ResponseWriter, message string, status int) {
	WriteResponseBytes(w, ContentType.Text, []byte(message), status)
}

// WriteJSON encodes v and writes it with the given status.
func WriteJSON(w http.ResponseWriter, v any, status int) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal response %T: %s", v, err)
		WriteJSONError(w, "internal error", http.StatusInternalServerError)
		return
	}
	WriteResponseBytes(w, ContentType.JSON, body, status)
}

func WriteJSONError(w http.ResponseWriter, detail string, status int) {
	body, err := json.Marshal(ErrorResponse{Detail: detail})
	if err != nil {
		// a string always marshals
		body = []byte(`{"detail":"internal error"}`)
	}
	WriteResponseBytes(w, ContentType.JSON, body, status)
}
