package model

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventProjectCreated   EventType = "project.created"
	EventProjectToggled   EventType = "project.toggled"
	EventProjectDeleted   EventType = "project.deleted"
	EventProjectIntegrity EventType = "project.integrity"
)

// ProjectEvent is published to the message queue after a lifecycle change.
type ProjectEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	ProjectID  int64     `json:"projectId,omitempty"`
	Slug       string    `json:"slug"`
	IsActive   *bool     `json:"isActive,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewProjectEvent(t EventType, p *Project) ProjectEvent {
	ev := ProjectEvent{
		ID:         uuid.New(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
	}
	if p != nil {
		ev.ProjectID = p.ID
		ev.Slug = p.Slug
	}
	return ev
}
