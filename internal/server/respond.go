package server

import (
	"encoding/json"
	"net/http"

	svcErr "github.com/fitcheck/wardrobe-server/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeServiceError maps a service error onto the wire. Storage details are
// logged, never surfaced.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	status := svcErr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.appCtx.Logger.Error("request failed", "err", err)
	}
	writeMessage(w, status, svcErr.PublicMessage(err))
}
