package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zeroprod/newsletter/email"
	"github.com/zeroprod/newsletter/logging"
	"github.com/zeroprod/newsletter/ops"
	"github.com/zeroprod/newsletter/types"
)

func newSendEmailCmd(factory *Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send-email <RECIPIENT>",
		Short: "Send one email message through the configured provider",
		Long: `Reads a JSON object from standard input describing a message:

` + email.ExampleMessageJson + `

If the input passes validation, it makes a single attempt to deliver the
message to RECIPIENT through the configured email API.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendEmail(cmd, args[0], factory)
		},
	}
	registerConfigDir(cmd)
	return cmd
}

func sendEmail(cmd *cobra.Command, rawRecipient string, factory *Factory) error {
	recipient, err := types.ParseSubscriberEmail(rawRecipient)
	if err != nil {
		return err
	}

	msg, err := email.NewMessageFromJson(cmd.InOrStdin())
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	settings, err := factory.LoadSettings(getConfigDir(cmd))
	if err != nil {
		return err
	}
	mailer, err := factory.NewMailer(settings)
	if err != nil {
		return err
	}

	logger := logging.New(cmd.ErrOrStderr(), settings.Log.Level)
	agent := ops.NewProdAgent(nil, mailer, &logger)

	if err = agent.Notify(cmd.Context(), recipient, msg); err != nil {
		return err
	}
	cmd.Printf("Sent \"%s\" to %s\n", msg.Subject, recipient)
	return nil
}
