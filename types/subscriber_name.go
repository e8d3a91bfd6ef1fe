package types

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// MaxSubscriberNameLength is measured in grapheme clusters, so "ë" written as
// "e" plus a combining diaeresis counts once.
const MaxSubscriberNameLength = 256

const forbiddenNameChars = `/()"<>\{}`

// SubscriberName is a display name that passed ParseSubscriberName.
type SubscriberName struct {
	name string
}

// ParseSubscriberName validates raw and wraps it unchanged.
//
// raw is rejected if it is empty or all whitespace, if its trimmed form is
// longer than MaxSubscriberNameLength grapheme clusters, or if it contains any
// of the characters / ( ) " < > \ { }.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	trimmed := strings.TrimSpace(raw)
	var reasons []string

	if trimmed == "" {
		reasons = append(reasons, "empty or whitespace")
	}
	if n := uniseg.GraphemeClusterCount(trimmed); n > MaxSubscriberNameLength {
		const reasonFmt = "%d characters long, maximum is %d"
		reasons = append(
			reasons, fmt.Sprintf(reasonFmt, n, MaxSubscriberNameLength),
		)
	}
	if strings.ContainsAny(raw, forbiddenNameChars) {
		reasons = append(reasons, "contains one of "+forbiddenNameChars)
	}

	if len(reasons) != 0 {
		return SubscriberName{}, &ValidationError{
			Kind:   InvalidName,
			Input:  raw,
			Reason: strings.Join(reasons, ", "),
		}
	}
	return SubscriberName{raw}, nil
}

func (n SubscriberName) String() string {
	return n.name
}

// MustParseSubscriberName panics if raw isn't a valid SubscriberName.
func MustParseSubscriberName(raw string) SubscriberName {
	name, err := ParseSubscriberName(raw)
	if err != nil {
		panic(err.Error())
	}
	return name
}

func (n SubscriberName) Equal(other SubscriberName) bool {
	return n.name == other.name
}
