package server

import "net/http"

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r.Context())
	user, err := s.users.Get(r.Context(), ident.UserID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r.Context())
	snap, err := s.analytics.Compute(r.Context(), ident.UserID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
