// Package roomcode produces the short codes participants type to join a room.
// Generate has no side effects; uniqueness is the caller's job.
package roomcode

import (
	room_constants "Dilemma/constants/room"
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// ErrExhausted is returned by Unique when every attempt collided.
var ErrExhausted = errors.New("roomcode: no unique code after max attempts")

var alphabetSize = big.NewInt(int64(len(room_constants.ROOM_CODE_ALPHABET)))

// Generate returns ROOM_CODE_LENGTH symbols drawn uniformly from A-Z0-9.
func Generate() string {
	b := make([]byte, room_constants.ROOM_CODE_LENGTH)
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		b[i] = room_constants.ROOM_CODE_ALPHABET[n.Int64()]
	}
	return string(b)
}

// Normalize trims and upper-cases a code typed by a person.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether code is exactly ROOM_CODE_LENGTH symbols of A-Z0-9.
func Valid(code string) bool {
	if len(code) != room_constants.ROOM_CODE_LENGTH {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(room_constants.ROOM_CODE_ALPHABET, rune(code[i])) {
			return false
		}
	}
	return true
}

// Unique draws codes from generate until exists reports a free one, at most
// attempts times. A failing exists aborts the loop with its error.
func Unique(ctx context.Context, generate func() string, exists func(ctx context.Context, code string) (bool, error), attempts int) (string, error) {
	for i := 0; i < attempts; i++ {
		code := generate()
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrExhausted
}
