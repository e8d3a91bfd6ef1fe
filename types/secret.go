package types

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

const redacted = "[REDACTED]"

// Secret holds a credential that must never end up in logs or serialized
// output.
//
// Every formatting path (fmt verbs, JSON, zerolog) renders "[REDACTED]". Call
// Expose only at the point where the raw value is handed to its consumer.
type Secret struct {
	value string
}

func NewSecret(value string) Secret {
	return Secret{value}
}

func (s Secret) Expose() string {
	return s.value
}

// IsEmpty reports whether the value is empty or all whitespace.
func (s Secret) IsEmpty() bool {
	return strings.TrimSpace(s.value) == ""
}

func (s Secret) String() string {
	return redacted
}

func (s Secret) GoString() string {
	return "types.Secret{" + redacted + "}"
}

func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(redacted)
}

func (s *Secret) UnmarshalYAML(node *yaml.Node) error {
	return node.Decode(&s.value)
}
