package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/zeroprod/newsletter/logging"
	"github.com/zeroprod/newsletter/types"
)

const uniqueViolation = pq.ErrorCode("23505")

const createSubscriptionsTable = `CREATE TABLE IF NOT EXISTS subscriptions (
    id uuid PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    subscribed_at timestamptz NOT NULL
)`

const insertSubscription = `INSERT INTO subscriptions ` +
	`(id, email, name, subscribed_at) VALUES ($1, $2, $3, $4)`

const selectSubscription = `SELECT id, email, name, subscribed_at ` +
	`FROM subscriptions WHERE email = $1`

type PostgresDb struct {
	Db *sql.DB
}

// NewPostgresDb prepares a connection pool for dsn without connecting.
//
// The first query opens the first connection, so a database that's down
// surfaces as an error from Put rather than from here.
func NewPostgresDb(dsn types.Secret) (*PostgresDb, error) {
	sqlDb, err := sql.Open("postgres", dsn.Expose())
	if err != nil {
		return nil, fmt.Errorf("failed to configure Postgres pool: %w", err)
	}
	return &PostgresDb{Db: sqlDb}, nil
}

func (db *PostgresDb) CreateTable(ctx context.Context) error {
	if _, err := db.Db.ExecContext(ctx, createSubscriptionsTable); err != nil {
		return fmt.Errorf("failed to create subscriptions table: %w", err)
	}
	return nil
}

func (db *PostgresDb) Put(ctx context.Context, sub *types.Subscription) error {
	_, err := db.Db.ExecContext(
		ctx,
		insertSubscription,
		sub.Id.String(),
		sub.Email.String(),
		sub.Name.String(),
		sub.SubscribedAt,
	)

	var pqErr *pq.Error
	if err == nil {
		return nil
	} else if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		err = fmt.Errorf("%w: %w", ErrDuplicateEmail, err)
	}
	return fmt.Errorf(
		"failed to save subscription for %s: %w",
		logging.RedactEmail(sub.Email.String()), err,
	)
}

func (db *PostgresDb) Get(
	ctx context.Context, email types.SubscriberEmail,
) (*types.Subscription, error) {
	var rawEmail, rawName string
	sub := &types.Subscription{}
	row := db.Db.QueryRowContext(ctx, selectSubscription, email.String())

	err := row.Scan(&sub.Id, &rawEmail, &rawName, &sub.SubscribedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf(
			"%w: %s", ErrSubscriptionNotFound, logging.RedactEmail(email.String()),
		)
	} else if err != nil {
		const errFmt = "failed to get subscription for %s: %w"
		return nil, fmt.Errorf(errFmt, logging.RedactEmail(email.String()), err)
	}
	return parseRecord(sub, rawEmail, rawName)
}

func (db *PostgresDb) Ping(ctx context.Context) error {
	return db.Db.PingContext(ctx)
}

func (db *PostgresDb) Close() error {
	return db.Db.Close()
}

func parseRecord(
	sub *types.Subscription, rawEmail, rawName string,
) (*types.Subscription, error) {
	var emailErr, nameErr error
	sub.Email, emailErr = types.ParseSubscriberEmail(rawEmail)
	sub.Name, nameErr = types.ParseSubscriberName(rawName)

	if err := errors.Join(emailErr, nameErr); err != nil {
		return nil, errors.New("failed to parse subscription: " + err.Error())
	}
	sub.SubscribedAt = sub.SubscribedAt.UTC()
	return sub, nil
}
