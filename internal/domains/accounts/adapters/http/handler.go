// Package http exposes login and token verification over gin.
package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/metalsdesk/admin-api/internal/domains/accounts/application"
	"github.com/metalsdesk/admin-api/internal/domains/accounts/domain"
	"github.com/metalsdesk/admin-api/internal/domains/accounts/ports"
	sharederrors "github.com/metalsdesk/admin-api/internal/shared/errors"
	"github.com/metalsdesk/admin-api/internal/shared/identity"
)

// Handler serves the authentication routes.
type Handler struct {
	service   ports.Service
	responder *sharederrors.Responder
}

func NewHandler(service ports.Service) *Handler {
	return &Handler{
		service:   service,
		responder: sharederrors.NewResponder("", mapAccountsError),
	}
}

// Register mounts the public auth routes on the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

// RegisterProtected mounts user management, which requires a valid token.
func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.POST("/auth/users", h.CreateUser)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) Login(c *gin.Context) {
	var payload loginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, "invalid request body")
		return
	}
	pair, err := h.service.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: pair.Token, ExpiresAt: pair.ExpiresAt})
}

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	var payload createUserRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.responder.BadRequest(c, "invalid request body")
		return
	}
	user, err := h.service.Register(c.Request.Context(), payload.Username, payload.Email, payload.Password, domain.Role(payload.Role))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	})
}

// Middleware verifies the bearer token and threads the caller identity
// into the request context. Requests without a valid token are rejected.
func Middleware(service ports.Service) gin.HandlerFunc {
	responder := sharederrors.NewResponder("", mapAccountsError)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			responder.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}
		id, err := service.VerifyToken(c.Request.Context(), token)
		if err != nil {
			responder.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		identity.Set(c, id.Username)
		c.Next()
	}
}

func mapAccountsError(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, application.ErrInvalidCredentials), errors.Is(err, application.ErrInvalidToken):
		return sharederrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrUsernameTaken):
		return sharederrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, domain.ErrUsernameRequired),
		errors.Is(err, domain.ErrEmailRequired),
		errors.Is(err, domain.ErrUnknownRole):
		return sharederrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ports.ErrNotFound):
		return sharederrors.ErrNotFound.WithDetail("user not found"), true
	}
	return sharederrors.ProblemDetail{}, false
}
