package domain

import "time"

// Status enumerates workflow columns for documents. Any status may move to
// any other status.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// ValidStatus reports whether s is a member of the closed status set.
func ValidStatus(s Status) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Priority enumerates document urgency.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// ValidPriority reports whether p is a member of the closed priority set.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// TitleMaxLen bounds document titles, measured in runes.
const TitleMaxLen = 200

// Document is the aggregate for tracked documents.
type Document struct {
	ID        string
	Title     string
	Content   string
	Status    Status
	Priority  Priority
	AuthorID  int64
	CreatedAt time.Time
	UpdatedAt time.Time

	// Author is populated by reads that join the users table.
	Author *User
}
