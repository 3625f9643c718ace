package auth

import (
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devamrit/learnhub-server-go/internal/features/user"
	"github.com/devamrit/learnhub-server-go/internal/middleware"
	"github.com/devamrit/learnhub-server-go/pkg/config"
	"github.com/devamrit/learnhub-server-go/pkg/response"
	"github.com/devamrit/learnhub-server-go/pkg/types"
)

const accessTokenExpiry = 24 * time.Hour

// Handler processes authentication HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
	cfg    *config.Config
}

// NewHandler constructs an auth handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, cfg *config.Config) *Handler {
	return &Handler{db: db, logger: logger, cfg: cfg}
}

// Register creates a new user account.
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid registration payload", err)
		return
	}

	role := types.UserRole(req.Role)
	if role != types.UserRoleInstructor {
		role = types.UserRoleStudent
	}

	authResp, err := Register(h.db, RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	}, h.tokenConfig())

	if err != nil {
		h.respondError(c, err, "registration failed")
		return
	}

	response.Created(c, authResp, "Account created successfully")
}

// Login authenticates a user and returns a JWT.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid login payload", err)
		return
	}

	authResp, err := Login(h.db, LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, h.tokenConfig())

	if err != nil {
		h.respondError(c, err, "login failed")
		return
	}

	response.Success(c, http.StatusOK, authResp, "Login successful", nil)
}

// Profile returns the authenticated caller's account.
func (h *Handler) Profile(c *gin.Context) {
	usr, ok := middleware.GetUserFromContext(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	response.Success(c, http.StatusOK, usr, "", nil)
}

func (h *Handler) tokenConfig() TokenConfig {
	return TokenConfig{Secret: h.cfg.JWTSecret, Expiry: accessTokenExpiry}
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = "Incorrect email or password."
	case errors.Is(err, ErrMissingFields):
		status = http.StatusBadRequest
		message = "Name and email are required."
	case errors.Is(err, user.ErrEmailTaken):
		status = http.StatusConflict
		message = "Email already registered."
	case errors.Is(err, user.ErrInvalidPassword):
		status = http.StatusBadRequest
		message = "Password must be at least 8 characters."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
