package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a JSON logger writing to w at the named level.
//
// Recognized levels are "debug", "info", "warn" and "error", in any case.
// Anything else, including "", yields info.
func New(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// NewWithoutTimestamp is New for runtimes that stamp each line themselves,
// like AWS Lambda.
func NewWithoutTimestamp(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level))
}

func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}

// RedactEmail masks the local part of an address for logging.
//
//	"ursula_le_guin@gmail.com" => "ur***@gmail.com"
//	"ul@gmail.com"             => "***@gmail.com"
//	"not-an-address"           => "***@***"
func RedactEmail(email string) string {
	local, domain, found := strings.Cut(email, "@")
	if !found || strings.Contains(domain, "@") {
		return "***@***"
	} else if len(local) > 2 {
		return local[:2] + "***@" + domain
	}
	return "***@" + domain
}
