package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/lorrc/it-helpdesk/internal/adapters/primary/http/middleware"
	"github.com/lorrc/it-helpdesk/internal/auth"
	"github.com/lorrc/it-helpdesk/internal/core/ports"
)

// ProfileResponse defines the JSON response for the authenticated user,
// including whether they hold the IT staff role.
type ProfileResponse struct {
	UserDTO
	IsITStaff bool `json:"isItStaff"`
}

// MeHandler handles HTTP requests for the authenticated user.
type MeHandler struct {
	authService  ports.AuthService
	authzService ports.AuthorizationService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewMeHandler creates a new MeHandler.
func NewMeHandler(
	authService ports.AuthService,
	authzService ports.AuthorizationService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *MeHandler {
	return &MeHandler{
		authService:  authService,
		authzService: authzService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "me"),
	}
}

// RegisterRoutes registers the /me routes.
func (h *MeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleProfile)
}

// HandleProfile handles GET /me.
func (h *MeHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	isStaff, err := h.authzService.IsITStaff(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, ProfileResponse{
		UserDTO:   toUserDTO(user),
		IsITStaff: isStaff,
	})
}

// getClaims extracts and validates user claims from the request context.
func (h *MeHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}
