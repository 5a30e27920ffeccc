package models

import "time"

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

func ValidPriority(priority string) bool {
	return priority == PriorityLow ||
		priority == PriorityMedium ||
		priority == PriorityHigh
}

type Task struct {
	ID          string
	Name        string
	Description string
	Completed   bool
	DueDate     time.Time
	Priority    string
	ProjectID   string // immutable after creation
	// CompletedBy holds the id of the user who last toggled Completed,
	// in either direction. Empty until the first toggle.
	CompletedBy string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
