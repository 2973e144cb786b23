package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string, used for user, column, card,
// notification and invite-token ids. ULIDs are lexicographically
// sortable by creation time and safe for use as DynamoDB partition
// keys. Board ids are the one exception: those are caller-assigned.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
