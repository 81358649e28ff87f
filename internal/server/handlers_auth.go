package server

import (
	"errors"
	"net/http"

	"traffic/pulse/internal/auth"
)

// handleLogin godoc
// @Title Demo login
// @Description Checks credentials against the demo user fixture and returns a bearer token.
// @Resource Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} APIError
// @Failure 401 {object} APIError
// @Route /api/auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, errInvalidPayload, err.Error())
		return
	}

	user, err := s.auth.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.writeError(w, http.StatusUnauthorized, "invalid username or password", nil)
			return
		}
		s.writeError(w, http.StatusInternalServerError, "login failed", err.Error())
		return
	}

	token, err := s.auth.IssueToken(user)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to issue token", err.Error())
		return
	}

	s.log.Info().Str("username", user.Username).Str("role", user.Role).Msg("user logged in")
	s.writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: *user})
}
