package events

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/mesa-backend/utils"
)

// Fanout publishes every event to all of its publishers. A failing publisher
// does not stop the others.
type Fanout struct {
	publishers []Publisher
}

func NewFanout(publishers ...Publisher) *Fanout {
	f := &Fanout{}
	for _, p := range publishers {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

func (f *Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, event); err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{
				"topic":      event.Topic,
				"resourceId": event.ResourceID,
			}).Errorf("publish failed: %v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
