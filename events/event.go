package events

import (
	"context"
	"time"

	"github.com/yeremiapane/mesa-backend/models"
)

const EntityTables = "tables"

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event is the envelope consumed by the realtime gateway.
type Event struct {
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	Topic      string            `json:"topic"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       interface{}       `json:"data"`
	Timestamp  time.Time         `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

func TableEvent(action, cnpj string, table models.MesaResponse) Event {
	metadata := map[string]string{}
	if cnpj != "" {
		metadata["cnpj"] = cnpj
	}
	return Event{
		Entity:     EntityTables,
		Action:     action,
		ResourceID: table.ID,
		Topic:      EntityTables + "." + action,
		Metadata:   metadata,
		Data:       table,
		Timestamp:  time.Now().UTC(),
	}
}
