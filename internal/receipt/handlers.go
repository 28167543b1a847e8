package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	msgInvalidReceipt = "The receipt is invalid."
	msgNotFound       = "No receipt found for that ID."
)

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes an error response in the {"detail": ...} shape
func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{
		"detail": message,
	})
}

// handleIndex describes the service
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "A simple receipt processor",
	})
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// handleProcessReceipt validates, scores and stores a receipt
func (s *Server) handleProcessReceipt(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		slog.Info("Error reading receipt body", "request_id", requestID, "error", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, msgInvalidReceipt, http.StatusBadRequest)
		return
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		slog.Info("Receipt is not valid JSON", "request_id", requestID, "error", err)
		writeError(w, msgInvalidReceipt, http.StatusBadRequest)
		return
	}
	if err := validateReceiptDocument(doc); err != nil {
		slog.Info("Receipt failed schema validation", "request_id", requestID, "error", err)
		writeError(w, msgInvalidReceipt, http.StatusBadRequest)
		return
	}

	var req ProcessRequest
	if err := json.Unmarshal(body, &req); err != nil {
		slog.Info("Error decoding receipt", "request_id", requestID, "error", err)
		writeError(w, msgInvalidReceipt, http.StatusBadRequest)
		return
	}

	id, err := s.service.Process(req)
	if err != nil {
		if errors.Is(err, ErrInvalidReceipt) {
			slog.Info("Receipt rejected", "request_id", requestID, "error", err)
			writeError(w, msgInvalidReceipt, http.StatusBadRequest)
			return
		}
		slog.Error("Error processing receipt", "request_id", requestID, "error", err)
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id": id,
	})
}

// handleGetPoints returns the points awarded to a receipt
func (s *Server) handleGetPoints(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	points, err := s.service.GetPoints(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, msgNotFound, http.StatusNotFound)
			return
		}
		slog.Error("Error getting points", "id", id, "error", err)
		writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"points": points,
	})
}
