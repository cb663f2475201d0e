package domain

import "time"

// CommentType differentiates human comments from generated audit entries.
type CommentType string

const (
	CommentTypeComment      CommentType = "comment"
	CommentTypeSystem       CommentType = "system"
	CommentTypeStatusChange CommentType = "status_change"
	CommentTypeAssignment   CommentType = "assignment"
	CommentTypeEscalation   CommentType = "escalation"
)

// Comment is a timestamped note on a ticket thread. Internal comments are
// visible to agents and admins only; the serialization layer filters them
// for the reporting user. Comments are deleted only via cascade from their
// ticket.
type Comment struct {
	ID          string
	TicketID    string
	AuthorID    string
	Content     string
	CommentType CommentType
	IsInternal  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidCommentType reports whether t is a known comment type.
func ValidCommentType(t CommentType) bool {
	switch t {
	case CommentTypeComment, CommentTypeSystem, CommentTypeStatusChange, CommentTypeAssignment, CommentTypeEscalation:
		return true
	}
	return false
}
