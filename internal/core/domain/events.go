package domain

// EventType identifies the kind of ticket event pushed to live clients.
type EventType string

const (
	EventTicketCreated  EventType = "ticket.created"
	EventTicketUpdated  EventType = "ticket.updated"
	EventTicketAssigned EventType = "ticket.assigned"
	EventTicketArchived EventType = "ticket.archived"
	EventCommentAdded   EventType = "comment.added"
)

// Event is broadcast over the websocket hub when a ticket changes.
// StaffOnly events (internal comments) are withheld from non-staff clients.
type Event struct {
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticketId"`
	StaffOnly bool        `json:"-"`
	Payload   interface{} `json:"payload,omitempty"`
}
