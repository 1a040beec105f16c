package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	svcErr "github.com/fitcheck/wardrobe-server/internal/errors"
	"github.com/fitcheck/wardrobe-server/internal/service/closet"
	"github.com/fitcheck/wardrobe-server/internal/storage"
)

func (s *Server) handleListPieces(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r.Context())
	pieces, err := s.closet.List(r.Context(), ident.UserID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pieces)
}

func (s *Server) handleCreatePiece(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r.Context())
	if !s.parseUploadForm(w, r) {
		return
	}

	tags, err := parseStringList(r.FormValue("tags"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "tags must be a JSON array of strings")
		return
	}

	image, closeUpload, err := s.formUpload(r, "image")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if closeUpload != nil {
		defer closeUpload()
	}

	piece, err := s.closet.Create(r.Context(), ident.UserID, closet.CreateInput{
		Name:     r.FormValue("name"),
		Category: r.FormValue("category"),
		Color:    r.FormValue("color"),
		Season:   r.FormValue("season"),
		Tags:     tags,
		Image:    image,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, piece)
}

func (s *Server) handleUpdatePiece(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r.Context())
	if !s.parseUploadForm(w, r) {
		return
	}

	// empty form values mean "leave unchanged"
	in := closet.UpdateInput{}
	if v := r.FormValue("name"); v != "" {
		in.Name = &v
	}
	if v := r.FormValue("category"); v != "" {
		in.Category = &v
	}
	if v := r.FormValue("color"); v != "" {
		in.Color = &v
	}
	if v := r.FormValue("season"); v != "" {
		in.Season = &v
	}
	if v := r.FormValue("tags"); v != "" {
		tags, err := parseStringList(v)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "tags must be a JSON array of strings")
			return
		}
		in.Tags = &tags
	}

	image, closeUpload, err := s.formUpload(r, "image")
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if closeUpload != nil {
		defer closeUpload()
	}
	in.Image = image

	piece, err := s.closet.Update(r.Context(), ident.UserID, chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, piece)
}

func (s *Server) handleDeletePiece(w http.ResponseWriter, r *http.Request) {
	ident := identityFrom(r.Context())
	removed, err := s.closet.Delete(r.Context(), ident.UserID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if !removed {
		writeMessage(w, http.StatusNotFound, "piece not found")
		return
	}
	writeMessage(w, http.StatusOK, "piece deleted")
}

// parseUploadForm caps the body and parses the multipart form, answering
// whether the handler should continue.
func (s *Server) parseUploadForm(w http.ResponseWriter, r *http.Request) bool {
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid form data")
		return false
	}
	return true
}

// formUpload pulls an optional file field off a parsed multipart form.
func (s *Server) formUpload(r *http.Request, field string) (*storage.Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, svcErr.Invalid("invalid " + field + " upload")
	}
	if !s.isExtensionAllowed(header.Filename) {
		_ = file.Close()
		return nil, nil, svcErr.Invalid("unsupported file type")
	}
	upload := &storage.Upload{Filename: header.Filename, Content: file}
	return upload, func() { _ = file.Close() }, nil
}

// parseStringList decodes a JSON array form field. Empty input is fine.
func parseStringList(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}
	return list, nil
}
