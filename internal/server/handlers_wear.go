package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

type logWearRequest struct {
	OutfitID string  `json:"outfitId"`
	Location *string `json:"location"`
	WornDate *string `json:"wornDate"`
}

func (s *Server) handleLogWear(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r.Context())

	var req logWearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var wornDate *time.Time
	if req.WornDate != nil && *req.WornDate != "" {
		parsed, err := parseWornDate(*req.WornDate)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "wornDate must be RFC 3339 or YYYY-MM-DD")
			return
		}
		wornDate = &parsed
	}

	log, err := s.wear.Log(r.Context(), ident.UserID, req.OutfitID, req.Location, wornDate)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, log)
}

func (s *Server) handleRecentWearLogs(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r.Context())

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	logs, err := s.wear.Recent(r.Context(), ident.UserID, limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func parseWornDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
