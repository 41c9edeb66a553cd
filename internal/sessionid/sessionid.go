// Package sessionid mints identifiers for game sessions.
//
// IDs are UUIDv7 values written as 26 lower-case Crockford base32
// characters, so they sort by creation time and are safe to show in logs
// and URLs.
package sessionid

import (
	"encoding/base32"

	"github.com/google/uuid"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an encoded ID.
const Length = 26

var encoding = base32.NewEncoding(alphabet).WithPadding(base32.NoPadding)

// New returns a fresh session ID. It panics only if the system entropy
// source fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("sessionid: generating uuid: " + err.Error())
	}
	return Encode(id)
}

// Encode writes a UUID in session ID form.
func Encode(id uuid.UUID) string {
	return encoding.EncodeToString(id[:])
}
