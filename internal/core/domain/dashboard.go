package domain

// StatusCount pairs a ticket status with the number of tickets in it.
type StatusCount struct {
	Status TicketStatus
	Count  int64
}

// DashboardSummary is the staff dashboard aggregate: total ticket count,
// a per-status breakdown and the most recently created tickets. Archived
// (soft-deleted) tickets are included in every figure.
type DashboardSummary struct {
	TotalTickets  int64
	StatusCounts  []StatusCount
	RecentTickets []*Ticket
}

// CountFor returns the count for a given status, zero if absent.
func (s *DashboardSummary) CountFor(status TicketStatus) int64 {
	for _, sc := range s.StatusCounts {
		if sc.Status == status {
			return sc.Count
		}
	}
	return 0
}
