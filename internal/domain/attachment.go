package domain

import "time"

// AttachableType is the closed set of entities a file can be attached to.
type AttachableType string

const (
	AttachableTicket  AttachableType = "ticket"
	AttachableArticle AttachableType = "article"
)

// ParseAttachableType validates a raw attachable type.
func ParseAttachableType(raw string) (AttachableType, bool) {
	switch AttachableType(raw) {
	case AttachableTicket, AttachableArticle:
		return AttachableType(raw), true
	}
	return "", false
}

// Attachment is a stored file belonging to a ticket or a knowledge base
// article. FilePath is the blob store key used for deletion.
type Attachment struct {
	ID             string
	AttachableType AttachableType
	AttachableID   string
	FileName       string
	FilePath       string
	MimeType       string
	SizeBytes      int64
	UploadedAt     time.Time
}
