package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/favrelay/favrelay/internal/webhook"
)

// signatureHeader is the Favro webhook signature header.
const signatureHeader = "X-Favro-Webhook"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleWebhook verifies, decodes and routes one inbound event. The policy
// is to acknowledge whenever possible: only authentication failures and
// unexpected processing errors reject the request.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Printf("Error reading webhook body: %v", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "Error processing webhook",
		})
		return
	}

	result, err := s.verifier.Verify(body, r.Header.Get(signatureHeader))
	if err != nil {
		s.logger.Printf("Error verifying webhook signature: %v", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Internal server error during webhook verification",
		})
		return
	}
	if result == webhook.Invalid {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{
			"error": "Webhook signature verification failed",
		})
		return
	}

	ev, err := webhook.Decode(body)
	if err != nil {
		s.logger.Printf("Error processing webhook: %v", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "Error processing webhook",
		})
		return
	}

	s.logger.Printf("Received webhook from Favro, action: %s", ev.Action)

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RequestTimeout)
	defer cancel()

	message := s.router.Process(ctx, ev)

	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": message,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("Failed to encode JSON response: %v", err)
	}
}
