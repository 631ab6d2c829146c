package http

import (
	"errors"
	"net/http"

	"github.com/kienmai98/Life/internal/auth"
	"github.com/kienmai98/Life/internal/core"
)

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

type sessionResponse struct {
	User               *core.User `json:"user"`
	IsLoading          bool       `json:"isLoading"`
	IsBiometricEnabled bool       `json:"isBiometricEnabled"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.auth.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	s.session.SetUser(r.Context(), user)
	writeJSON(w, http.StatusCreated, sessionResponse{
		User:               user,
		IsBiometricEnabled: s.session.IsBiometricEnabled(),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.session.SetLoading(true)
	user, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.session.SetLoading(false)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	s.session.SetUser(r.Context(), user)
	writeJSON(w, http.StatusOK, sessionResponse{
		User:               user,
		IsBiometricEnabled: s.session.IsBiometricEnabled(),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Logout(r.Context())
	s.session.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionResponse{
		User:               s.session.User(),
		IsLoading:          s.session.IsLoading(),
		IsBiometricEnabled: s.session.IsBiometricEnabled(),
	})
}

type biometricRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleBiometric(w http.ResponseWriter, r *http.Request) {
	var req biometricRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.session.SetBiometricEnabled(r.Context(), req.Enabled)
	w.WriteHeader(http.StatusNoContent)
}
