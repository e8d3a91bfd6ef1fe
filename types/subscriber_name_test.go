//go:build small_tests || all_tests

package types

import (
	"errors"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"testing/quick"

	"github.com/zeroprod/newsletter/testutils"
	"gotest.tools/assert"
)

// validNameFixture generates names made of printable characters outside the
// forbidden set, between 1 and MaxSubscriberNameLength characters long.
type validNameFixture string

func (validNameFixture) Generate(r *rand.Rand, _ int) reflect.Value {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"0123456789 .,'-_!?&ëéßøåñ"
	runes := []rune(chars)
	name := make([]rune, 1+r.Intn(MaxSubscriberNameLength))

	for i := range name {
		name[i] = runes[r.Intn(len(runes))]
	}
	if strings.TrimSpace(string(name)) == "" {
		name[0] = 'x'
	}
	return reflect.ValueOf(validNameFixture(string(name)))
}

func TestParseSubscriberName(t *testing.T) {
	t.Run("Succeeds", func(t *testing.T) {
		name, err := ParseSubscriberName("Ursula Le Guin")

		assert.NilError(t, err)
		assert.Equal(t, "Ursula Le Guin", name.String())
	})

	t.Run("KeepsOriginalUntrimmedInput", func(t *testing.T) {
		name, err := ParseSubscriberName("  le guin ")

		assert.NilError(t, err)
		assert.Equal(t, "  le guin ", name.String())
	})

	t.Run("SucceedsForAnyValidName", func(t *testing.T) {
		parsesUnchanged := func(fixture validNameFixture) bool {
			name, err := ParseSubscriberName(string(fixture))
			return err == nil && name.String() == string(fixture)
		}

		assert.NilError(t, quick.Check(parsesUnchanged, nil))
	})

	t.Run("AcceptsMaxLengthName", func(t *testing.T) {
		_, err := ParseSubscriberName(strings.Repeat("\u00eb", 256))

		assert.NilError(t, err)
	})

	t.Run("CountsCombiningSequencesAsOneCharacter", func(t *testing.T) {
		// "e" followed by U+0308 COMBINING DIAERESIS is two runes, one grapheme.
		const combined = "e\u0308"

		_, err := ParseSubscriberName(strings.Repeat(combined, 256))
		assert.NilError(t, err)

		name, err := ParseSubscriberName(strings.Repeat(combined, 257))
		assert.Equal(t, "", name.String())
		assert.Assert(t, testutils.ErrorIs(err, ErrInvalidName))
		assert.ErrorContains(t, err, "257 characters long, maximum is 256")
	})

	t.Run("RejectsNameLongerThanMax", func(t *testing.T) {
		name, err := ParseSubscriberName(strings.Repeat("\u00eb", 257))

		assert.Equal(t, "", name.String())
		assert.Assert(t, testutils.ErrorIs(err, ErrInvalidName))
		assert.ErrorContains(t, err, "257 characters long, maximum is 256")
	})

	t.Run("RejectsEmptyOrWhitespaceOnlyName", func(t *testing.T) {
		for _, raw := range []string{"", " ", "  ", "\t\n", "   "} {
			_, err := ParseSubscriberName(raw)

			assert.Assert(t, testutils.ErrorIs(err, ErrInvalidName), "%q", raw)
		}
	})

	t.Run("RejectsForbiddenCharacters", func(t *testing.T) {
		for _, c := range []string{"/", "(", ")", `"`, "<", ">", `\`, "{", "}"} {
			_, err := ParseSubscriberName("le guin" + c)

			assert.Assert(t, testutils.ErrorIs(err, ErrInvalidName), c)
			assert.ErrorContains(t, err, "contains one of")
		}
	})

	t.Run("ErrorCarriesRawInput", func(t *testing.T) {
		const raw = `/()"<>\{}`

		_, err := ParseSubscriberName(raw)

		var validationErr *ValidationError
		assert.Assert(t, errors.As(err, &validationErr))
		assert.Equal(t, InvalidName, validationErr.Kind)
		assert.Equal(t, raw, validationErr.Input)
	})
}
