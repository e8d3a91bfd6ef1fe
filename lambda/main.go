package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	"github.com/zeroprod/newsletter/cmd"
	"github.com/zeroprod/newsletter/handler"
	"github.com/zeroprod/newsletter/logging"
	"github.com/zeroprod/newsletter/ops"
)

// ConfigDirVar names the directory holding the configuration files, relative
// to the function's working directory unless absolute.
const ConfigDirVar = "NEWSLETTER_CONFIG_DIR"

func buildAdapter(logger *zerolog.Logger) (*handler.LambdaAdapter, error) {
	configDir := os.Getenv(ConfigDirVar)
	if configDir == "" {
		configDir = cmd.DefaultConfigDir
	}

	settings, err := cmd.DefaultFactory.LoadSettings(configDir)
	if err != nil {
		return nil, err
	}
	*logger = logger.Level(logging.ParseLevel(settings.Log.Level))

	store, err := cmd.DefaultFactory.NewStore(context.Background(), settings)
	if err != nil {
		return nil, err
	}
	mailer, err := cmd.DefaultFactory.NewMailer(settings)
	if err != nil {
		return nil, err
	}

	agent := ops.NewProdAgent(store, mailer, logger)
	return &handler.LambdaAdapter{
		Handler: handler.NewHandler(agent, logger),
	}, nil
}

func main() {
	// The Lambda runtime already timestamps every line in CloudWatch.
	logger := logging.NewWithoutTimestamp(os.Stdout, "info")

	if adapter, err := buildAdapter(&logger); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize process")
	} else {
		lambda.Start(adapter.HandleEvent)
	}
}
