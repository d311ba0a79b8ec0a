package domain

import "time"

// AuditAction names the recorded operation.
type AuditAction string

const (
	AuditTicketCreated    AuditAction = "created_ticket"
	AuditTicketAssigned   AuditAction = "assigned_ticket"
	AuditTicketUnassigned AuditAction = "unassigned_ticket"
	AuditStatusUpdated    AuditAction = "updated_status"
	AuditTicketDeleted    AuditAction = "deleted_ticket"
	AuditUserRegistered   AuditAction = "user_registered"
	AuditUserLoggedIn     AuditAction = "user_logged_in"
)

// EntityType identifies which kind of record an audit entry refers to.
type EntityType string

const (
	EntityTicket EntityType = "ticket"
	EntityUser   EntityType = "user"
)

// AuditLog is an append-only trace of who did what to which entity. Entries
// are never updated or deleted. ActorID is nil once the acting user has been
// removed. Description is rendered at write time and embeds the actor's name
// and the entity's identifiers so the entry stays meaningful even after the
// referenced records change or disappear.
type AuditLog struct {
	ID          string
	ActorID     *string
	Action      AuditAction
	Description string
	EntityType  EntityType
	EntityID    string
	CreatedAt   time.Time
}
