package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time and safe for use as DynamoDB partition keys.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// Valid reports whether s is a well-formed ULID. Handlers check path ids with
// this before touching the store so malformed ids become 400s, not store
// errors surfaced as 500s.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
