package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// Ticket is the aggregate for help desk requests. TicketID is the
// human-readable identity (TKT-<year>-<suffix>); it is assigned before the
// first insert and never regenerated.
type Ticket struct {
	ID          string
	TicketID    string
	Title       string
	Description string
	CreatedBy   string
	AssignedTo  *string
	Priority    TicketPriority
	Status      TicketStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DueDate     *time.Time
	ResolvedAt  *time.Time
	ClosedAt    *time.Time
}

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// StampStatusTimes records resolution/closure times. ResolvedAt is set the
// first time the ticket is persisted while resolved, ClosedAt the first time
// while closed; once set they are never overwritten, even if the status moves
// on afterwards. Callers invoke this before every persist, so a ticket saved
// while already resolved or closed from an earlier partial write still gets
// its timestamp backfilled exactly once.
func (t *Ticket) StampStatusTimes(now time.Time) {
	if t.Status == TicketStatusResolved && t.ResolvedAt == nil {
		resolved := now
		t.ResolvedAt = &resolved
	}
	if t.Status == TicketStatusClosed && t.ClosedAt == nil {
		closed := now
		t.ClosedAt = &closed
	}
}

// TimeToResolution returns the duration between creation and resolution, or
// false when the ticket has not been resolved.
func (t *Ticket) TimeToResolution() (time.Duration, bool) {
	if t.ResolvedAt == nil {
		return 0, false
	}
	return t.ResolvedAt.Sub(t.CreatedAt), true
}
