package memory

import (
	"context"
	"errors"
	"sync"

	"useraccounts/internal/application/auth"
)

var errInvalidThreshold = errors.New("non-positive lock threshold")

// NoopPublisher swallows verification events. Used when no broker is
// configured; the verification URL still lands in the audit log.
type NoopPublisher struct{}

func (NoopPublisher) PublishVerifyEmail(context.Context, auth.VerifyEmailEvent) error {
	return nil
}

// RecordingPublisher keeps published events for test assertions.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []auth.VerifyEmailEvent

	// FailWith, when set, is returned from every publish.
	FailWith error
}

func (p *RecordingPublisher) PublishVerifyEmail(_ context.Context, evt auth.VerifyEmailEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailWith != nil {
		return p.FailWith
	}
	p.events = append(p.events, evt)
	return nil
}

func (p *RecordingPublisher) Events() []auth.VerifyEmailEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]auth.VerifyEmailEvent, len(p.events))
	copy(out, p.events)
	return out
}
