package http

import (
	"net/http"
	"path/filepath"
)

type receiptResponse struct {
	URI string `json:"uri"`
}

func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	if s.vault == nil {
		writeError(w, http.StatusServiceUnavailable, "receipt storage not available")
		return
	}

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	uri, err := s.vault.Store(r.Context(), file, filepath.Ext(header.Filename))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store receipt")
		return
	}

	writeJSON(w, http.StatusCreated, receiptResponse{URI: uri})
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	if s.locator == nil {
		writeError(w, http.StatusServiceUnavailable, "location not available")
		return
	}

	pt, err := s.locator.Locate(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "location not available")
		return
	}

	writeJSON(w, http.StatusOK, pt)
}
