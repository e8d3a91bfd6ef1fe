package ops

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/zeroprod/newsletter/db"
	"github.com/zeroprod/newsletter/email"
	"github.com/zeroprod/newsletter/logging"
	"github.com/zeroprod/newsletter/types"
)

type SubscriptionAgent interface {
	Subscribe(
		ctx context.Context,
		email types.SubscriberEmail,
		name types.SubscriberName,
	) error
}

type ProdAgent struct {
	NewUid      func() uuid.UUID
	CurrentTime func() time.Time
	Db          db.Database
	Mailer      email.Mailer
	Log         *zerolog.Logger
}

func NewProdAgent(
	database db.Database, mailer email.Mailer, logger *zerolog.Logger,
) *ProdAgent {
	return &ProdAgent{
		NewUid:      uuid.New,
		CurrentTime: time.Now,
		Db:          database,
		Mailer:      mailer,
		Log:         logger,
	}
}

// Subscribe stores a new Subscription with a fresh id and timestamp.
//
// It sends no email. A storage failure, including a duplicate address, is
// returned wrapped in ErrPersistence.
func (a *ProdAgent) Subscribe(
	ctx context.Context,
	address types.SubscriberEmail,
	name types.SubscriberName,
) error {
	log := a.logger(ctx).With().
		Str("subscriber_email", logging.RedactEmail(address.String())).
		Str("subscriber_name", name.String()).
		Logger()
	log.Info().Msg("Adding a new subscriber")

	sub := types.NewSubscription(a.NewUid(), address, name, a.CurrentTime())

	log.Debug().Stringer("subscription_id", sub.Id).
		Msg("Saving a new subscriber to the database")

	if err := a.Db.Put(ctx, sub); err != nil {
		err = fmt.Errorf("%w: %w", ErrPersistence, AwsError(err))
		log.Error().Err(err).Msg("Failed to save new subscriber")
		return err
	}
	log.Info().Msg("New subscriber saved")
	return nil
}

// Notify sends msg to recipient through the Mailer.
func (a *ProdAgent) Notify(
	ctx context.Context, recipient types.SubscriberEmail, msg *email.Message,
) error {
	log := a.logger(ctx).With().
		Str("recipient", logging.RedactEmail(recipient.String())).
		Logger()

	err := a.Mailer.SendEmail(
		ctx, recipient, msg.Subject, msg.HtmlBody, msg.TextBody,
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to send email")
		const errFmt = "failed to notify %s: %w"
		return fmt.Errorf(errFmt, logging.RedactEmail(recipient.String()), err)
	}
	log.Info().Msg("Sent email")
	return nil
}

// logger prefers the request scoped logger the handler stores in ctx.
func (a *ProdAgent) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return a.Log
}
