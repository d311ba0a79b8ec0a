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

// ParseTicketStatus validates a raw status value.
func ParseTicketStatus(raw string) (TicketStatus, bool) {
	switch TicketStatus(raw) {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return TicketStatus(raw), true
	}
	return "", false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// ParseTicketPriority validates a raw priority value.
func ParseTicketPriority(raw string) (TicketPriority, bool) {
	switch TicketPriority(raw) {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return TicketPriority(raw), true
	}
	return "", false
}

// Ticket is the aggregate for support requests.
//
// OwnerID is the creator and never changes after creation. AgentID is the
// staff member currently holding the ticket; nil means unclaimed. Status and
// AgentID are mutated together by the lifecycle engine and must be persisted
// atomically.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Priority    TicketPriority
	Status      TicketStatus
	OwnerID     string
	CategoryID  string
	AgentID     *string
	SLAHours    *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Unclaimed reports whether no agent currently holds the ticket.
func (t *Ticket) Unclaimed() bool {
	return t.AgentID == nil
}

// HeldBy reports whether the given user currently holds the ticket.
func (t *Ticket) HeldBy(userID string) bool {
	return t.AgentID != nil && *t.AgentID == userID
}
