package notifications

import (
	"context"
	"errors"

	"ferryman/internal/config"
	"ferryman/internal/interfaces"
)

// Multi delivers every notification to all of its notifiers. One failing
// channel does not keep the others from being tried.
type Multi []interfaces.Notifier

func (m Multi) Notify(ctx context.Context, subject, body string, success bool) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, subject, body, success); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FromConfig builds a Multi holding the enabled channels.
func FromConfig(cfg *config.Config) Multi {
	var m Multi
	if p := NewPushoverNotifier(cfg); p.IsEnabled() {
		m = append(m, p)
	}
	if e := NewEmailNotifier(cfg); e.IsEnabled() {
		m = append(m, e)
	}
	return m
}
