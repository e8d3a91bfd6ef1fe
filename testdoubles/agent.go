package testdoubles

import (
	"context"
	"sync"

	"github.com/zeroprod/newsletter/types"
)

type SubscribeCall struct {
	Email types.SubscriberEmail
	Name  types.SubscriberName
}

// Agent is an ops.SubscriptionAgent that records calls and returns Error.
type Agent struct {
	mu    sync.Mutex
	Calls []SubscribeCall
	Error error
}

func NewAgent() *Agent {
	return &Agent{Calls: make([]SubscribeCall, 0, 4)}
}

func (a *Agent) Subscribe(
	_ context.Context, email types.SubscriberEmail, name types.SubscriberName,
) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Calls = append(a.Calls, SubscribeCall{email, name})
	return a.Error
}

func (a *Agent) CallCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Calls)
}
