package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zeroprod/newsletter/types"
)

// EnvPrefix and EnvSeparator form override names like
// APP_EMAIL_CLIENT__AUTHORIZATION_TOKEN.
const (
	EnvPrefix    = "APP_"
	EnvSeparator = "__"
)

func EnvVarName(section, key string) string {
	return EnvPrefix + strings.ToUpper(section) + EnvSeparator +
		strings.ToUpper(key)
}

type environment struct {
	getenv    func(string) string
	badValues []string
}

func (env *environment) override(s *Settings) error {
	app := &s.Application
	env.assign(&app.Host, "application", "host")
	env.assignInt(&app.Port, "application", "port")

	db := &s.Database
	env.assign(&db.Host, "database", "host")
	env.assignInt(&db.Port, "database", "port")
	env.assign(&db.Username, "database", "username")
	env.assignSecret(&db.Password, "database", "password")
	env.assign(&db.DatabaseName, "database", "database_name")
	env.assignBool(&db.RequireSsl, "database", "require_ssl")

	env.assign(&s.Storage.Backend, "storage", "backend")
	env.assign(&s.Storage.DynamoDbTable, "storage", "dynamodb_table")

	ec := &s.EmailClient
	env.assign(&ec.BaseUrl, "email_client", "base_url")
	env.assign(&ec.SenderEmail, "email_client", "sender_email")
	env.assignSecret(&ec.AuthorizationToken, "email_client", "authorization_token")
	env.assignInt(&ec.TimeoutMilliseconds, "email_client", "timeout_milliseconds")

	env.assign(&s.Log.Level, "log", "level")

	if len(env.badValues) != 0 {
		return fmt.Errorf(
			"invalid environment variables:\n  %s",
			strings.Join(env.badValues, "\n  "),
		)
	}
	return nil
}

func (env *environment) lookup(section, key string) (string, string) {
	name := EnvVarName(section, key)
	return name, env.getenv(name)
}

func (env *environment) assign(opt *string, section, key string) {
	if _, value := env.lookup(section, key); value != "" {
		*opt = value
	}
}

func (env *environment) assignSecret(opt *types.Secret, section, key string) {
	if _, value := env.lookup(section, key); value != "" {
		*opt = types.NewSecret(value)
	}
}

func (env *environment) assignInt(opt *int, section, key string) {
	name, value := env.lookup(section, key)
	if value == "" {
		return
	} else if n, err := strconv.Atoi(value); err != nil {
		env.badValues = append(env.badValues, name+": not an integer: "+value)
	} else {
		*opt = n
	}
}

func (env *environment) assignBool(opt *bool, section, key string) {
	name, value := env.lookup(section, key)
	if value == "" {
		return
	} else if b, err := strconv.ParseBool(value); err != nil {
		env.badValues = append(env.badValues, name+": not a boolean: "+value)
	} else {
		*opt = b
	}
}
