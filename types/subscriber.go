package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Subscription is the record persisted for each successful intake.
type Subscription struct {
	Id           uuid.UUID
	Email        SubscriberEmail
	Name         SubscriberName
	SubscribedAt time.Time
}

const SubscriptionTimestampFormat = time.RFC3339

// NewSubscription stores subscribedAt in UTC.
func NewSubscription(
	id uuid.UUID,
	email SubscriberEmail,
	name SubscriberName,
	subscribedAt time.Time,
) *Subscription {
	return &Subscription{
		Id:           id,
		Email:        email,
		Name:         name,
		SubscribedAt: subscribedAt.UTC(),
	}
}

func (sub *Subscription) String() string {
	sb := strings.Builder{}
	sb.WriteString("Id: ")
	sb.WriteString(sub.Id.String())
	sb.WriteString(", Email: ")
	sb.WriteString(sub.Email.String())
	sb.WriteString(", Name: ")
	sb.WriteString(sub.Name.String())
	sb.WriteString(", SubscribedAt: ")
	sb.WriteString(sub.SubscribedAt.Format(SubscriptionTimestampFormat))
	return sb.String()
}
