// Package idgen provides short, URL-safe random token generation backed
// by nanoid. Entity primary keys use UUIDs; idgen covers storage object
// keys and CSRF tokens.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet defines the character set used for generated tokens.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// KeyLength is the number of characters in a storage object key token.
var KeyLength = 16

// TokenLength is the number of characters in a CSRF token.
var TokenLength = 32

// ObjectKey returns a new random storage key token.
func ObjectKey() (string, error) {
	id, err := nanoid.Generate(Alphabet, KeyLength)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return id, nil
}

// Token returns a new random token suitable for CSRF use.
func Token() (string, error) {
	id, err := nanoid.Generate(Alphabet, TokenLength)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return id, nil
}
