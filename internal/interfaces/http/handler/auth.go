package handler

import (
	accountapp "github.com/bilemo/api/internal/application/account"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles token issuance and password changes
type AuthHandler struct {
	BaseHandler
	authService *accountapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *accountapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login exchanges credentials for a bearer token
func (h *AuthHandler) Login(c *gin.Context) {
	var req accountapp.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangePassword updates the caller's own password. Tokens issued before the
// change stop being accepted.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.NotFound(c, "Le client n'existe pas")
		return
	}

	var req accountapp.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), actorID(c), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
