// Package contacts implements the client side of contact discovery: reading
// device contacts, hashing them locally, and resolving the hashes against the
// server in bounded batches. Raw phone numbers never leave this package; only
// hashes are ever transmitted.
package contacts

import (
	"context"

	"revlink/internal/phonehash"
)

// Contact is a device contact. It is ephemeral: never persisted and never
// transmitted.
type Contact struct {
	Name     string
	RawPhone string
}

// Source reads contacts from the device address book. Implementations wrap
// the platform permission model and return a PERMISSION_DENIED AppError when
// the user has withheld contacts access; that error is surfaced to the
// caller, not retried.
type Source interface {
	Contacts(ctx context.Context) ([]Contact, error)
}

// BuildHashSet hashes the given contacts into a set keyed by phone hash.
// Multiple contacts collapsing to one hash keep the first-seen name; ties are
// not an error.
func BuildHashSet(contacts []Contact) map[string]string {
	set := make(map[string]string, len(contacts))
	for _, c := range contacts {
		h := phonehash.Hash(c.RawPhone)
		if _, ok := set[h]; !ok {
			set[h] = c.Name
		}
	}
	return set
}
