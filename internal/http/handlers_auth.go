package http

import (
	"net/http"

	"finances/internal/log"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := parseInto(w, r, &in); err != nil {
		writeError(w, r, log.OpRegister, err)
		return
	}

	u, err := s.services.Auth.Register(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, log.OpRegister, err)
		return
	}
	s.metrics.registration()
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := parseInto(w, r, &in); err != nil {
		writeError(w, r, log.OpLogin, err)
		return
	}

	token, err := s.services.Auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		s.metrics.login(false)
		writeError(w, r, log.OpLogin, err)
		return
	}
	s.metrics.login(true)
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// requireAuth resolves the bearer token before anything touches the store.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.services.Auth.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			log.FromContext(r.Context()).DebugContext(r.Context(), "Rejected unauthenticated request",
				log.FieldPath, r.URL.Path, log.FieldError, err.Error())
			_ = UnauthorizedError("not authorized").Write(w)
			return
		}

		ctx := withUserID(r.Context(), userID)
		logger := log.FromContext(ctx).With(log.FieldUserID, userID)
		next.ServeHTTP(w, r.WithContext(log.NewContext(ctx, logger)))
	})
}
