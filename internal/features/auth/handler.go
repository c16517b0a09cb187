package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/streetpulse/streetpulse/internal/config"
	"github.com/streetpulse/streetpulse/internal/pkg/response"
	"github.com/streetpulse/streetpulse/internal/pkg/token"
	apperrors "github.com/streetpulse/streetpulse/pkg/errors"
)

type Handler struct {
	repo *Repository
	cfg  *config.Config
}

func NewHandler(repo *Repository, cfg *config.Config) *Handler {
	return &Handler{repo: repo, cfg: cfg}
}

// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Account details"
// @Success 201 {object} response.SuccessResponse{data=AuthResponse}
// @Failure 409 {object} response.ErrorResponse
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request", "INVALID_JSON")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.InternalServerError(c, "Failed to create account", "INTERNAL_ERROR")
		return
	}

	user := &User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err := h.repo.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			response.Conflict(c, "Username or email already exists", "DUPLICATE_USER")
			return
		}
		response.DatabaseError(c, "Failed to create account")
		return
	}

	accessToken, err := token.Generate(h.cfg.JWTSecret, h.cfg.JWTExpireHours, user.ID.Hex(), user.Username)
	if err != nil {
		response.InternalServerError(c, "Failed to issue token", "INTERNAL_ERROR")
		return
	}

	response.Created(c, AuthResponse{User: user, AccessToken: accessToken})
}

// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} response.SuccessResponse{data=AuthResponse}
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request", "INVALID_JSON")
		return
	}

	user, err := h.repo.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.Unauthorized(c, "Invalid username or password", "AUTH_FAILED")
			return
		}
		response.DatabaseError(c, "Failed to look up account")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		response.Unauthorized(c, "Invalid username or password", "AUTH_FAILED")
		return
	}

	accessToken, err := token.Generate(h.cfg.JWTSecret, h.cfg.JWTExpireHours, user.ID.Hex(), user.Username)
	if err != nil {
		response.InternalServerError(c, "Failed to issue token", "INTERNAL_ERROR")
		return
	}

	response.Success(c, AuthResponse{User: user, AccessToken: accessToken})
}

// @Summary Current account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=User}
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.GetString("userID"))
	if err != nil {
		response.Unauthorized(c, "Authentication required", "AUTH_FAILED")
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Account not found", "NOT_FOUND")
			return
		}
		response.DatabaseError(c, "Failed to look up account")
		return
	}

	response.Success(c, user)
}
