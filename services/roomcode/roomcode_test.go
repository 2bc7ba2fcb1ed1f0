package roomcode

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func TestGenerateMatchesPattern(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		code := Generate()
		assert.Regexp(t, codePattern, code)
		assert.True(t, Valid(code))
		seen[code] = true
	}
	// 36^6 codes; a handful of repeats in 2000 draws would point at a broken source
	assert.Greater(t, len(seen), 1990)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "AB12CD", Normalize("  ab12cd "))
	assert.Equal(t, "", Normalize("   "))
}

func TestValid(t *testing.T) {
	cases := map[string]bool{
		"AB12CD":  true,
		"ab12cd":  false,
		"AB12C":   false,
		"AB12CDE": false,
		"AB-2CD":  false,
		"":        false,
		"ÄB12CD":  false,
	}
	for code, want := range cases {
		assert.Equal(t, want, Valid(code), code)
	}
}

func countingGenerator() (func() string, *int) {
	calls := 0
	return func() string {
		calls++
		return fmt.Sprintf("CODE%02d", calls)
	}, &calls
}

func TestUniqueRetriesCollisions(t *testing.T) {
	generate, calls := countingGenerator()
	taken := map[string]bool{"CODE01": true, "CODE02": true}

	code, err := Unique(context.Background(), generate, func(ctx context.Context, code string) (bool, error) {
		return taken[code], nil
	}, 5)
	require.NoError(t, err)
	assert.Equal(t, "CODE03", code)
	assert.Equal(t, 3, *calls)
}

func TestUniqueExhausted(t *testing.T) {
	generate, calls := countingGenerator()

	_, err := Unique(context.Background(), generate, func(ctx context.Context, code string) (bool, error) {
		return true, nil
	}, 5)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 5, *calls)
}

func TestUniqueStopsOnLookupFailure(t *testing.T) {
	generate, calls := countingGenerator()
	boom := errors.New("connection refused")

	_, err := Unique(context.Background(), generate, func(ctx context.Context, code string) (bool, error) {
		return false, boom
	}, 5)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, *calls)
}
