package testdoubles

import (
	"context"
	"sync"

	"github.com/zeroprod/newsletter/db"
	"github.com/zeroprod/newsletter/types"
)

// Database is an in-memory db.Database that enforces unique email addresses
// the way both production backends do.
type Database struct {
	mu             sync.Mutex
	Subscriptions  []*types.Subscription
	Index          map[string]*types.Subscription
	SimulatePutErr func(emailAddress string) error
}

func NewDatabase() *Database {
	return &Database{
		Subscriptions:  make([]*types.Subscription, 0, 10),
		Index:          make(map[string]*types.Subscription, 10),
		SimulatePutErr: func(_ string) error { return nil },
	}
}

func (dbase *Database) Put(_ context.Context, sub *types.Subscription) error {
	dbase.mu.Lock()
	defer dbase.mu.Unlock()

	email := sub.Email.String()
	if err := dbase.SimulatePutErr(email); err != nil {
		return err
	} else if _, exists := dbase.Index[email]; exists {
		return db.ErrDuplicateEmail
	}
	dbase.Subscriptions = append(dbase.Subscriptions, sub)
	dbase.Index[email] = sub
	return nil
}

func (dbase *Database) Get(
	_ context.Context, email types.SubscriberEmail,
) (*types.Subscription, error) {
	dbase.mu.Lock()
	defer dbase.mu.Unlock()

	if sub, ok := dbase.Index[email.String()]; ok {
		return sub, nil
	}
	return nil, db.ErrSubscriptionNotFound
}

func (dbase *Database) Count() int {
	dbase.mu.Lock()
	defer dbase.mu.Unlock()
	return len(dbase.Subscriptions)
}
