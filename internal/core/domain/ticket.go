package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lorrc/it-helpdesk/internal/core/errors"
)

// Length limits for ticket fields.
const (
	MaxTitleLength = 255
)

// TicketStatus represents the possible states of a ticket.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "OPEN"
	StatusInProgress TicketStatus = "IN_PROGRESS"
	StatusResolved   TicketStatus = "RESOLVED"
	StatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority represents the urgency of a ticket.
type TicketPriority string

const (
	PriorityLow      TicketPriority = "LOW"
	PriorityMedium   TicketPriority = "MEDIUM"
	PriorityHigh     TicketPriority = "HIGH"
	PriorityCritical TicketPriority = "CRITICAL"
)

// ValidStatuses lists every accepted ticket status.
var ValidStatuses = []TicketStatus{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

// ValidPriorities lists every accepted ticket priority.
var ValidPriorities = []TicketPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// IsValidStatus reports whether s is one of the accepted statuses.
func IsValidStatus(s TicketStatus) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsValidPriority reports whether p is one of the accepted priorities.
func IsValidPriority(p TicketPriority) bool {
	for _, v := range ValidPriorities {
		if v == p {
			return true
		}
	}
	return false
}

// Ticket is the core domain entity.
type Ticket struct {
	ID          int64
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	CreatedBy   uuid.UUID
	AssigneeID  *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	IsDeleted   bool
	DeletedAt   *time.Time
	DeletedBy   *uuid.UUID
}

// TicketParams holds the validated input for creating a ticket.
type TicketParams struct {
	Title       string
	Description string
	Priority    TicketPriority
	CreatedBy   uuid.UUID
	AssigneeID  *uuid.UUID
}

// NewTicket is a factory function to create a valid new ticket.
// New tickets always start in the OPEN state.
func NewTicket(params TicketParams) (*Ticket, error) {
	if params.Title == "" {
		return nil, apperrors.ErrTitleRequired
	}
	if len(params.Title) > MaxTitleLength {
		return nil, apperrors.ErrTitleTooLong
	}
	if params.Description == "" {
		return nil, apperrors.ErrDescriptionRequired
	}
	if !IsValidPriority(params.Priority) {
		return nil, apperrors.ErrInvalidPriority
	}

	return &Ticket{
		Title:       params.Title,
		Description: params.Description,
		Status:      StatusOpen,
		Priority:    params.Priority,
		CreatedBy:   params.CreatedBy,
		AssigneeID:  params.AssigneeID,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// IsClosed reports whether the ticket has reached the CLOSED state.
// Archiving is gated on this.
func (t *Ticket) IsClosed() bool {
	return t.Status == StatusClosed
}

// IsOwnedBy reports whether the given user created the ticket.
func (t *Ticket) IsOwnedBy(userID uuid.UUID) bool {
	return t.CreatedBy == userID
}

// ApplyUpdate overwrites status, priority and assignee in one step.
// Any status can follow any other; the state machine only gates deletion,
// which requires CLOSED.
func (t *Ticket) ApplyUpdate(status TicketStatus, priority TicketPriority, assigneeID *uuid.UUID) error {
	if !IsValidStatus(status) {
		return apperrors.ErrInvalidStatus
	}
	if !IsValidPriority(priority) {
		return apperrors.ErrInvalidPriority
	}

	t.Status = status
	t.Priority = priority
	t.AssigneeID = assigneeID
	now := time.Now().UTC()
	t.UpdatedAt = &now
	return nil
}

// AssignTo hands the ticket to the given staff member and moves it to
// IN_PROGRESS. This is an unconditional overwrite: a ticket that is closed
// or already assigned elsewhere is taken over all the same.
func (t *Ticket) AssignTo(staffID uuid.UUID) {
	t.AssigneeID = &staffID
	t.Status = StatusInProgress
	now := time.Now().UTC()
	t.UpdatedAt = &now
}

// Archive soft-deletes the ticket. Only closed tickets can be archived;
// the row itself stays in storage.
func (t *Ticket) Archive(staffID uuid.UUID) error {
	if !t.IsClosed() {
		return apperrors.ErrTicketNotClosed
	}

	now := time.Now().UTC()
	t.IsDeleted = true
	t.DeletedAt = &now
	t.DeletedBy = &staffID
	return nil
}
