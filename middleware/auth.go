package middleware

import (
	room_constants "Dilemma/constants/room"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidStreamToken = errors.New("invalid stream token")

// StreamClaims bind a dashboard stream to one resolved room.
type StreamClaims struct {
	RoomID   string `json:"room_id"`
	RoomCode string `json:"room_code"`
	jwt.RegisteredClaims
}

// IssueStreamToken signs a token for the room's dashboard stream.
func IssueStreamToken(key []byte, roomID, roomCode string, now time.Time) (string, error) {
	claims := StreamClaims{
		RoomID:   roomID,
		RoomCode: roomCode,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   roomID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(room_constants.STREAM_TOKEN_TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ParseStreamToken validates the token, with or without a "Bearer " prefix.
func ParseStreamToken(key []byte, raw string) (*StreamClaims, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if raw == "" {
		return nil, ErrInvalidStreamToken
	}

	claims := &StreamClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStreamToken, err)
	}
	if !token.Valid || claims.RoomID == "" {
		return nil, ErrInvalidStreamToken
	}
	return claims, nil
}
