package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/lorrc/it-helpdesk/internal/adapters/primary/http/middleware"
	"github.com/lorrc/it-helpdesk/internal/auth"
	"github.com/lorrc/it-helpdesk/internal/core/domain"
	"github.com/lorrc/it-helpdesk/internal/core/ports"
)

// AdminHandler handles the IT staff administrative endpoints.
type AdminHandler struct {
	adminService ports.AdminService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService ports.AdminService, errorHandler *ErrorHandler, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "admin"),
	}
}

// RegisterRoutes registers the /admin routes.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.HandleDashboard)
	r.Delete("/closed-tickets", h.HandlePurgeClosedTickets)
	r.Get("/assignees", h.HandleListAssignees)
}

// StatusCountDTO is one per-status slice of the dashboard counts.
type StatusCountDTO struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// DashboardResponse defines the JSON response for the staff dashboard.
type DashboardResponse struct {
	TotalTickets  int64            `json:"totalTickets"`
	StatusCounts  []StatusCountDTO `json:"statusCounts"`
	RecentTickets []TicketDTO      `json:"recentTickets"`
}

// PurgeResponse reports how many closed tickets were hard-deleted.
type PurgeResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

// AssigneeDTO represents a staff member that can be assigned to tickets.
type AssigneeDTO struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func toDashboardResponse(summary *domain.DashboardSummary) DashboardResponse {
	statusCounts := make([]StatusCountDTO, 0, len(summary.StatusCounts))
	for _, count := range summary.StatusCounts {
		statusCounts = append(statusCounts, StatusCountDTO{
			Status: string(count.Status),
			Count:  count.Count,
		})
	}

	return DashboardResponse{
		TotalTickets:  summary.TotalTickets,
		StatusCounts:  statusCounts,
		RecentTickets: toTicketDTOs(summary.RecentTickets),
	}
}

func toAssigneeDTOs(users []*domain.User) []AssigneeDTO {
	assignees := make([]AssigneeDTO, 0, len(users))
	for _, user := range users {
		assignees = append(assignees, AssigneeDTO{
			ID:       user.ID.String(),
			FullName: user.FullName,
			Email:    user.Email,
		})
	}
	return assignees
}

// HandleDashboard handles GET /admin/dashboard
func (h *AdminHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	summary, err := h.adminService.Dashboard(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toDashboardResponse(summary))
}

// HandlePurgeClosedTickets handles DELETE /admin/closed-tickets.
// This is the bulk hard delete: every closed ticket goes, archived or not.
func (h *AdminHandler) HandlePurgeClosedTickets(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	deleted, err := h.adminService.PurgeClosedTickets(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("closed tickets purged",
		"deleted_count", deleted,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, PurgeResponse{DeletedCount: deleted})
}

// HandleListAssignees handles GET /admin/assignees
func (h *AdminHandler) HandleListAssignees(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	users, err := h.adminService.ListAssignees(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toAssigneeDTOs(users))
}

// getClaims extracts and validates user claims from the request context.
func (h *AdminHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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
