package notify

import (
	"context"
	"log"

	"github.com/mwalton/price-tracker/internal/models"
)

// Notifier consumes the aggregated result of a check cycle
type Notifier interface {
	NotifyChanges(result *models.CheckResult)
}

// Fanout dispatches a check result to every configured sink
type Fanout struct {
	notifiers []Notifier
}

// NewFanout creates a fanout over the given notifiers
func NewFanout(notifiers ...Notifier) *Fanout {
	return &Fanout{notifiers: notifiers}
}

// NotifyChanges forwards the result to each sink in order
func (f *Fanout) NotifyChanges(result *models.CheckResult) {
	for _, n := range f.notifiers {
		n.NotifyChanges(result)
	}
}

// NotifyChanges lets the producer act as a scheduler sink. Publishing is
// best effort: failures are logged, never propagated into the cycle.
func (p *Producer) NotifyChanges(result *models.CheckResult) {
	if err := p.PublishChanges(context.Background(), result); err != nil {
		log.Printf("Failed to publish change events: %v", err)
	}
}
