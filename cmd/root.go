package cmd

import (
	"github.com/spf13/cobra"
)

const newsletterDesc = "Newsletter service accepting subscriptions over HTTP"
const newsletterDescLong = newsletterDesc + `

Settings come from <config-dir>/base.yaml, overlaid by
<config-dir>/$APP_ENVIRONMENT.yaml ("local" or "production", defaulting to
"local"), overlaid by APP_<SECTION>__<KEY> environment variables such as
APP_APPLICATION__PORT=8080. A .env file in the working directory is loaded
first, if present.

To create the subscriptions table for the configured storage backend:
  newsletter create-subscriptions-table

To run the HTTP service:
  newsletter serve

To send a single message, where ` + "`generate-email`" + ` is any program that
creates message input JSON:
  generate-email | newsletter send-email <RECIPIENT>
`

var rootCmd = &cobra.Command{
	Use:     "newsletter",
	Version: "v0.1.0",
	Short:   newsletterDesc,
	Long:    newsletterDescLong,
}

func init() {
	rootCmd.AddCommand(newServeCmd(DefaultFactory))
	rootCmd.AddCommand(newCreateSubscriptionsTableCmd(DefaultFactory))
	rootCmd.AddCommand(newSendEmailCmd(DefaultFactory))
}

func Execute() error {
	return rootCmd.Execute()
}
