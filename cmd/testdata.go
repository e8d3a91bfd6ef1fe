//go:build small_tests || all_tests

package cmd

import (
	"context"
	"errors"

	"github.com/zeroprod/newsletter/config"
	"github.com/zeroprod/newsletter/email"
	"github.com/zeroprod/newsletter/types"
)

const TestTableName = "newsletter-subscriptions"

func newTestSettings() *config.Settings {
	return &config.Settings{
		Application: config.ApplicationSettings{Host: "127.0.0.1", Port: 0},
		Database: config.DatabaseSettings{
			Host:         "127.0.0.1",
			Port:         5432,
			Username:     "postgres",
			Password:     types.NewSecret("password"),
			DatabaseName: "newsletter",
		},
		Storage: config.StorageSettings{
			Backend:       config.StorageBackendDynamoDb,
			DynamoDbTable: TestTableName,
		},
		EmailClient: config.EmailClientSettings{
			BaseUrl:             "http://localhost:3000",
			SenderEmail:         "newsletter@zeroprod.com",
			AuthorizationToken:  types.NewSecret("my-secret-token"),
			TimeoutMilliseconds: 1000,
		},
		Log: config.LogSettings{Level: "debug"},
	}
}

// testFactory returns the same Settings, Store, and Mailer on every call and
// records the config dir it was asked to load.
type testFactory struct {
	Settings  *config.Settings
	Store     Store
	Mailer    email.Mailer
	ConfigDir string
	LoadErr   error
	StoreErr  error
	MailerErr error
}

func (tf *testFactory) Factory() *Factory {
	return &Factory{
		LoadSettings: func(configDir string) (*config.Settings, error) {
			tf.ConfigDir = configDir
			if tf.LoadErr != nil {
				return nil, tf.LoadErr
			}
			return tf.Settings, nil
		},
		NewStore: func(context.Context, *config.Settings) (Store, error) {
			if tf.StoreErr != nil {
				return nil, tf.StoreErr
			}
			return tf.Store, nil
		},
		NewMailer: func(*config.Settings) (email.Mailer, error) {
			if tf.MailerErr != nil {
				return nil, tf.MailerErr
			}
			return tf.Mailer, nil
		},
	}
}

var errTestFactory = errors.New("test factory error")
