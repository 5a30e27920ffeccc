package models

import "time"

type Project struct {
	ID          string
	Name        string
	Description string
	Client      string
	DueDate     time.Time
	CreatorID   string
	// CollaboratorIDs is a set; insertion order is irrelevant.
	// The creator is never part of it.
	CollaboratorIDs []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (p *Project) IsCreator(userID string) bool {
	return p.CreatorID == userID
}

func (p *Project) IsCollaborator(userID string) bool {
	for _, id := range p.CollaboratorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsMember reports whether the user may read the project
// and toggle its tasks.
func (p *Project) IsMember(userID string) bool {
	return p.IsCreator(userID) || p.IsCollaborator(userID)
}
