package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/zeroprod/newsletter/types"
	"gopkg.in/yaml.v3"
)

const (
	EnvironmentVar     = "APP_ENVIRONMENT"
	DefaultEnvironment = "local"

	BaseConfigFile = "base.yaml"

	StorageBackendPostgres = "postgres"
	StorageBackendDynamoDb = "dynamodb"
)

var environments = []string{"local", "production"}

type Settings struct {
	Application ApplicationSettings `yaml:"application"`
	Database    DatabaseSettings    `yaml:"database"`
	Storage     StorageSettings     `yaml:"storage"`
	EmailClient EmailClientSettings `yaml:"email_client"`
	Log         LogSettings         `yaml:"log"`
}

type ApplicationSettings struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseSettings struct {
	Host         string       `yaml:"host"`
	Port         int          `yaml:"port"`
	Username     string       `yaml:"username"`
	Password     types.Secret `yaml:"password"`
	DatabaseName string       `yaml:"database_name"`
	RequireSsl   bool         `yaml:"require_ssl"`
}

type StorageSettings struct {
	Backend       string `yaml:"backend"`
	DynamoDbTable string `yaml:"dynamodb_table"`
}

type EmailClientSettings struct {
	BaseUrl             string       `yaml:"base_url"`
	SenderEmail         string       `yaml:"sender_email"`
	AuthorizationToken  types.Secret `yaml:"authorization_token"`
	TimeoutMilliseconds int          `yaml:"timeout_milliseconds"`
}

type LogSettings struct {
	Level string `yaml:"level"`
}

// LoadFromEnv loads a .env file from the working directory, if one exists,
// then calls Load with os.Getenv. Variables already set in the process
// environment take precedence over the .env file.
func LoadFromEnv(dir string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return Load(dir, os.Getenv)
}

// Load builds Settings from three layers, each overriding the last:
//
//   - dir/base.yaml
//   - dir/<environment>.yaml, where the environment comes from
//     APP_ENVIRONMENT and defaults to "local"
//   - APP_<SECTION>__<KEY> environment variables, e.g. APP_APPLICATION__PORT
func Load(dir string, getenv func(string) string) (*Settings, error) {
	envName := getenv(EnvironmentVar)
	if envName == "" {
		envName = DefaultEnvironment
	}
	if !isKnownEnvironment(envName) {
		const errFmt = "%s must be one of %s, got: %q"
		return nil, fmt.Errorf(
			errFmt, EnvironmentVar, strings.Join(environments, ", "), envName,
		)
	}

	settings := &Settings{}
	for _, file := range []string{BaseConfigFile, envName + ".yaml"} {
		if err := settings.readFile(filepath.Join(dir, file)); err != nil {
			return nil, err
		}
	}

	env := environment{getenv: getenv}
	if err := env.override(settings); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func isKnownEnvironment(name string) bool {
	for _, env := range environments {
		if name == env {
			return true
		}
	}
	return false
}

func (s *Settings) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read configuration file: %w", err)
	}
	// Unmarshaling into the existing value only replaces keys present in the
	// file, so each file overlays the ones before it.
	if err = yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse configuration file %s: %w", path, err)
	}
	return nil
}

// Validate reports every missing or invalid setting at once.
func (s *Settings) Validate() error {
	missing := make([]string, 0, 8)
	require := func(value, name string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	invalid := make([]string, 0, 4)

	switch s.Storage.Backend {
	case StorageBackendPostgres:
		require(s.Database.Host, "database.host")
		require(s.Database.Username, "database.username")
		require(s.Database.DatabaseName, "database.database_name")
	case StorageBackendDynamoDb:
		require(s.Storage.DynamoDbTable, "storage.dynamodb_table")
	case "":
		missing = append(missing, "storage.backend")
	default:
		invalid = append(invalid, fmt.Sprintf(
			"storage.backend must be %q or %q, got: %q",
			StorageBackendPostgres, StorageBackendDynamoDb, s.Storage.Backend,
		))
	}

	ec := &s.EmailClient
	require(ec.BaseUrl, "email_client.base_url")
	require(ec.SenderEmail, "email_client.sender_email")
	if ec.AuthorizationToken.IsEmpty() {
		missing = append(missing, "email_client.authorization_token")
	}
	if ec.TimeoutMilliseconds == 0 {
		missing = append(missing, "email_client.timeout_milliseconds")
	} else if ec.TimeoutMilliseconds < 0 {
		invalid = append(invalid, fmt.Sprintf(
			"email_client.timeout_milliseconds must be positive, got: %d",
			ec.TimeoutMilliseconds,
		))
	}
	if ec.SenderEmail != "" {
		if _, err := ec.Sender(); err != nil {
			invalid = append(invalid, "email_client.sender_email: "+err.Error())
		}
	}
	if p := s.Application.Port; p < 0 || p > 65535 {
		invalid = append(
			invalid, fmt.Sprintf("application.port out of range: %d", p),
		)
	}

	errs := make([]error, 0, 2)
	if len(missing) != 0 {
		errs = append(errs, fmt.Errorf(
			"missing required settings:\n  %s", strings.Join(missing, "\n  "),
		))
	}
	if len(invalid) != 0 {
		errs = append(errs, fmt.Errorf(
			"invalid settings:\n  %s", strings.Join(invalid, "\n  "),
		))
	}
	return errors.Join(errs...)
}

func (a *ApplicationSettings) Address() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// WithoutDb returns a lib/pq connection string that doesn't select a
// database, for administrative connections.
func (d *DatabaseSettings) WithoutDb() types.Secret {
	sslMode := "disable"
	if d.RequireSsl {
		sslMode = "require"
	}
	params := []string{
		"host=" + quoteDsnValue(d.Host),
		"port=" + strconv.Itoa(d.Port),
		"user=" + quoteDsnValue(d.Username),
		"password=" + quoteDsnValue(d.Password.Expose()),
		"sslmode=" + sslMode,
		"connect_timeout=2",
	}
	return types.NewSecret(strings.Join(params, " "))
}

// ConnectionString is WithoutDb plus the configured database name.
func (d *DatabaseSettings) ConnectionString() types.Secret {
	return types.NewSecret(
		d.WithoutDb().Expose() + " dbname=" + quoteDsnValue(d.DatabaseName),
	)
}

func quoteDsnValue(value string) string {
	if value != "" && !strings.ContainsAny(value, ` '\`) {
		return value
	}
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
	return "'" + escaped + "'"
}

func (ec *EmailClientSettings) Sender() (types.SubscriberEmail, error) {
	return types.ParseSubscriberEmail(ec.SenderEmail)
}

func (ec *EmailClientSettings) Timeout() time.Duration {
	return time.Duration(ec.TimeoutMilliseconds) * time.Millisecond
}
