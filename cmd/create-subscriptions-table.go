package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeroprod/newsletter/db"
)

const (
	tableWaitAttempts = 24
	tableWaitInterval = 5 * time.Second
)

func newCreateSubscriptionsTableCmd(factory *Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-subscriptions-table",
		Short: "Create the subscriptions table",
		Long: `Creates the subscriptions table in the configured storage backend.

For PostgreSQL, the table is created in the configured database if it
doesn't already exist. For DynamoDB, the command waits for the new table
to become active.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return createSubscriptionsTable(cmd.Context(), cmd, factory)
		},
	}
	registerConfigDir(cmd)
	return cmd
}

func createSubscriptionsTable(
	ctx context.Context, cmd *cobra.Command, factory *Factory,
) (err error) {
	settings, err := factory.LoadSettings(getConfigDir(cmd))
	if err != nil {
		return
	}

	store, err := factory.NewStore(ctx, settings)
	if err != nil {
		return
	}
	defer func() {
		if closeErr := closeStore(store); err == nil {
			err = closeErr
		}
	}()

	if err = store.CreateTable(ctx); err != nil {
		return
	}

	if dynDb, ok := store.(*db.DynamoDb); ok {
		sleep := func() { time.Sleep(tableWaitInterval) }
		if err = dynDb.WaitForTable(ctx, tableWaitAttempts, sleep); err != nil {
			return
		}
		cmd.Printf("Successfully created DynamoDB table: %s\n", dynDb.TableName)
		return
	}
	cmd.Printf(
		"Successfully created subscriptions table in database: %s\n",
		settings.Database.DatabaseName,
	)
	return
}
