package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fitcheck/wardrobe-server/internal/service/outfits"
)

func (s *Server) handleListOutfits(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r.Context())
	list, err := s.outfits.List(r.Context(), ident.UserID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateOutfit(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r.Context())
	if !s.parseUploadForm(w, r) {
		return
	}

	pieceIDs, err := parseStringList(r.FormValue("pieceIds"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "pieceIds must be a JSON array of strings")
		return
	}

	cover, closeUpload, err := s.formUpload(r, "coverImage")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if closeUpload != nil {
		defer closeUpload()
	}

	outfit, err := s.outfits.Create(r.Context(), ident.UserID, r.FormValue("name"), pieceIDs, cover)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, outfit)
}

func (s *Server) handleUpdateOutfit(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r.Context())
	if !s.parseUploadForm(w, r) {
		return
	}

	in := outfits.UpdateInput{}
	if v := r.FormValue("name"); v != "" {
		in.Name = &v
	}
	// an absent pieceIds field keeps the composition; "[]" clears it
	if v := r.FormValue("pieceIds"); v != "" {
		pieceIDs, err := parseStringList(v)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "pieceIds must be a JSON array of strings")
			return
		}
		if pieceIDs == nil {
			pieceIDs = []string{}
		}
		in.PieceIDs = &pieceIDs
	}

	cover, closeUpload, err := s.formUpload(r, "coverImage")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if closeUpload != nil {
		defer closeUpload()
	}
	in.Cover = cover

	outfit, err := s.outfits.Update(r.Context(), ident.UserID, chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outfit)
}

func (s *Server) handleDeleteOutfit(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r.Context())
	removed, err := s.outfits.Delete(r.Context(), ident.UserID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if !removed {
		writeMessage(w, http.StatusNotFound, "outfit not found")
		return
	}
	writeMessage(w, http.StatusOK, "outfit deleted")
}
