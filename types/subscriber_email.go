package types

import (
	"github.com/go-playground/validator/v10"
)

var emailValidator = validator.New()

// SubscriberEmail is an email address that passed ParseSubscriberEmail.
type SubscriberEmail struct {
	email string
}

// ParseSubscriberEmail checks raw against the RFC 5322 address grammar
// implemented by validator's "email" rule and wraps it unchanged.
//
// The check is purely syntactic: no DNS or mailbox lookups happen here.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	if err := emailValidator.Var(raw, "required,email"); err != nil {
		return SubscriberEmail{}, &ValidationError{
			Kind:   InvalidEmail,
			Input:  raw,
			Reason: "not a valid email address",
		}
	}
	return SubscriberEmail{raw}, nil
}

// MustParseSubscriberEmail is ParseSubscriberEmail for addresses known at
// compile time, e.g. in tests. It panics on invalid input.
func MustParseSubscriberEmail(raw string) SubscriberEmail {
	email, err := ParseSubscriberEmail(raw)
	if err != nil {
		panic(err.Error())
	}
	return email
}

func (e SubscriberEmail) String() string {
	return e.email
}

func (e SubscriberEmail) Equal(other SubscriberEmail) bool {
	return e.email == other.email
}
