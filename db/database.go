package db

import (
	"context"

	"github.com/zeroprod/newsletter/types"
)

// Database stores Subscriptions.
//
// Put must perform a single write: either the whole record is stored or
// nothing is.
type Database interface {
	Put(ctx context.Context, sub *types.Subscription) error
}

const (
	ErrSubscriptionNotFound = types.SentinelError("subscription not found")

	// ErrDuplicateEmail is returned by Put when a Subscription with the same
	// email address already exists.
	ErrDuplicateEmail = types.SentinelError("email already subscribed")
)
