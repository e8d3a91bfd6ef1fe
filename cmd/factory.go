package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/zeroprod/newsletter/config"
	"github.com/zeroprod/newsletter/db"
	"github.com/zeroprod/newsletter/email"
	"github.com/zeroprod/newsletter/ops"
)

// Store is a subscription database that can also create its own schema.
type Store interface {
	db.Database
	CreateTable(ctx context.Context) error
}

type SettingsLoaderFunc func(configDir string) (*config.Settings, error)

type StoreFactoryFunc func(
	ctx context.Context, settings *config.Settings,
) (Store, error)

type MailerFactoryFunc func(settings *config.Settings) (email.Mailer, error)

// Factory builds the dependencies shared by every command.
type Factory struct {
	LoadSettings SettingsLoaderFunc
	NewStore     StoreFactoryFunc
	NewMailer    MailerFactoryFunc
}

var DefaultFactory = &Factory{
	LoadSettings: config.LoadFromEnv,
	NewStore:     NewStore,
	NewMailer:    NewMailer,
}

// NewStore returns the backend selected by settings.Storage.Backend.
//
// The PostgreSQL connection is opened lazily, on first use.
func NewStore(
	ctx context.Context, settings *config.Settings,
) (Store, error) {
	switch backend := settings.Storage.Backend; backend {
	case config.StorageBackendPostgres:
		pg, err := db.NewPostgresDb(settings.Database.ConnectionString())
		if err != nil {
			return nil, err
		}
		return pg, nil
	case config.StorageBackendDynamoDb:
		cfg, err := ops.LoadDefaultAwsConfig(ctx)
		if err != nil {
			return nil, err
		}
		return db.NewDynamoDb(cfg, settings.Storage.DynamoDbTable), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", backend)
	}
}

func NewMailer(settings *config.Settings) (email.Mailer, error) {
	ec := &settings.EmailClient
	sender, err := ec.Sender()
	if err != nil {
		return nil, err
	}
	client, err := email.NewClient(
		ec.BaseUrl, sender, ec.AuthorizationToken, ec.Timeout(),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func closeStore(store Store) error {
	if closer, ok := store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
