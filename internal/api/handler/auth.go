package handler

import (
	"net/http"

	"github.com/mcoot/tikitakatoe/internal/api/apierr"
	"github.com/mcoot/tikitakatoe/internal/api/middleware"
	"github.com/mcoot/tikitakatoe/internal/api/request"
	"github.com/mcoot/tikitakatoe/internal/api/response"
	"github.com/mcoot/tikitakatoe/internal/services/auth"
	"github.com/mcoot/tikitakatoe/internal/services/stats"
)

// AuthHandler handles account and stats endpoints
type AuthHandler struct {
	authService  *auth.Service
	statsService *stats.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, statsService *stats.Service) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		statsService: statsService,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeBody(w, r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if req.Username == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeBody(w, r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if req.Username == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	h.authService.InvalidateSession(session.Token)
	response.NoContent(w)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	user, err := h.authService.GetUser(r.Context(), session.Token)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MeFromModel(user))
}

// Stats handles GET /auth/stats
func (h *AuthHandler) Stats(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	summary, err := h.statsService.Summary(r.Context(), session.UserID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel(summary))
}
