package email

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Message is the content of a single email, minus its addresses.
type Message struct {
	Subject  string
	HtmlBody string
	TextBody string
}

const ExampleMessageJson = `  {
    "Subject": "Welcome to the newsletter",
    "HtmlBody": "<p>Thanks for subscribing!</p>",
    "TextBody": "Thanks for subscribing!"
  }`

// NewMessageFromJson decodes and validates a Message.
//
// Unknown fields are rejected, so a typo in a field name doesn't silently
// produce an empty body.
func NewMessageFromJson(r io.Reader) (msg *Message, err error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	m := &Message{}

	if err = decoder.Decode(m); err != nil {
		err = fmt.Errorf("failed to parse message input from JSON: %w", err)
	} else if err = m.Validate(); err == nil {
		msg = m
	}
	return
}

func (m *Message) Validate() error {
	errs := make([]error, 0, 3)
	checkField := func(value, name string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, errors.New("missing "+name))
		}
	}

	checkField(m.Subject, "Subject")
	checkField(m.HtmlBody, "HtmlBody")
	checkField(m.TextBody, "TextBody")

	if err := errors.Join(errs...); err != nil {
		return errors.New("message failed validation: " + err.Error())
	}
	return nil
}
