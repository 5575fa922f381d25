package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/it-helpdesk/internal/adapters/primary/validation"
	"github.com/lorrc/it-helpdesk/internal/auth"
	"github.com/lorrc/it-helpdesk/internal/core/domain"
	"github.com/lorrc/it-helpdesk/internal/core/ports"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	authService  ports.AuthService
	tokenManager *auth.TokenManager
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authService ports.AuthService,
	tokenManager *auth.TokenManager,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenManager: tokenManager,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "auth"),
	}
}

// RegisterRoutes registers the public auth routes.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
}

// --- Request/Response DTOs ---

// RegisterRequest defines the expected JSON body for registration
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the register request
func (r *RegisterRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("fullName", r.FullName).
		MaxLength("fullName", r.FullName, 255)

	v.Required("email", r.Email).
		Email("email", r.Email)

	v.Required("password", r.Password).
		MinLength("password", r.Password, 8)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// LoginRequest defines the expected JSON body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserDTO defines the JSON response for a user account.
type UserDTO struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// TokenResponse carries the issued access token plus the user it belongs to.
type TokenResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

func toUserDTO(user *domain.User) UserDTO {
	return UserDTO{
		ID:        user.ID.String(),
		FullName:  user.FullName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

// --- Handlers ---

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[RegisterRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)

	WriteCreated(w, toUserDTO(user))
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[LoginRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	token, err := h.tokenManager.GenerateToken(user.ID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)

	WriteJSON(w, http.StatusOK, TokenResponse{
		Token: token,
		User:  toUserDTO(user),
	})
}
