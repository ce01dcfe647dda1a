package contacts

import (
	"context"
	"errors"
	"testing"

	"revlink/internal/models"
	"revlink/internal/phonehash"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sourceStub struct {
	contacts []Contact
	err      error
}

func (s *sourceStub) Contacts(ctx context.Context) ([]Contact, error) {
	return s.contacts, s.err
}

type lookupStub struct {
	batches  [][]string
	profiles []models.User
	err      error
}

func (l *lookupStub) LookupByHashes(ctx context.Context, hashes []string) ([]models.User, error) {
	batch := make([]string, len(hashes))
	copy(batch, hashes)
	l.batches = append(l.batches, batch)
	if l.err != nil {
		return nil, l.err
	}
	set := make(map[string]bool, len(hashes))
	for _, h := range hashes {
		set[h] = true
	}
	var out []models.User
	for _, p := range l.profiles {
		if p.PhoneHash != nil && set[*p.PhoneHash] {
			out = append(out, p)
		}
	}
	return out, nil
}

func registeredUser(phone string) models.User {
	h := phonehash.Hash(phone)
	return models.User{ID: uuid.New(), PhoneHash: &h}
}

func TestBuildHashSetFirstNameWins(t *testing.T) {
	set := BuildHashSet([]Contact{
		{Name: "Alice", RawPhone: "555-111-2222"},
		{Name: "Alice (work)", RawPhone: "+1 (555) 111-2222"},
		{Name: "Bob", RawPhone: "555-123-4567"},
	})

	assert.Len(t, set, 2)
	assert.Equal(t, "Alice", set[phonehash.Hash("5551112222")])
	assert.Equal(t, "Bob", set[phonehash.Hash("5551234567")])
}

func TestFindRegisteredMatchesContact(t *testing.T) {
	alice := registeredUser("5551112222")
	source := &sourceStub{contacts: []Contact{
		{Name: "Alice", RawPhone: "555-111-2222"},
		{Name: "Nobody", RawPhone: "555-999-0000"},
	}}
	lookup := &lookupStub{profiles: []models.User{alice}}
	m := NewMatcher(source, lookup)

	matches, err := m.FindRegistered(context.Background(), uuid.New(), nil)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, alice.ID, matches[0].Profile.ID)
	assert.Equal(t, "Alice", matches[0].ContactName)
}

func TestFindRegisteredExcludesSelfAndGraph(t *testing.T) {
	self := registeredUser("5551112222")
	friend := registeredUser("5551234567")
	fresh := registeredUser("5550001111")

	source := &sourceStub{contacts: []Contact{
		{Name: "Me", RawPhone: "5551112222"},
		{Name: "Old Friend", RawPhone: "5551234567"},
		{Name: "New Face", RawPhone: "5550001111"},
	}}
	lookup := &lookupStub{profiles: []models.User{self, friend, fresh}}
	m := NewMatcher(source, lookup)

	matches, err := m.FindRegistered(context.Background(), self.ID, map[uuid.UUID]bool{friend.ID: true})

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, fresh.ID, matches[0].Profile.ID)
	assert.Equal(t, "New Face", matches[0].ContactName)
}

func TestFindRegisteredChunksLookups(t *testing.T) {
	deviceContacts := make([]Contact, 5)
	for i := range deviceContacts {
		deviceContacts[i] = Contact{
			Name:     "C",
			RawPhone: "55500011" + string(rune('0'+i)) + "0",
		}
	}
	source := &sourceStub{contacts: deviceContacts}
	lookup := &lookupStub{}
	m := NewMatcher(source, lookup, WithChunkSize(2))

	_, err := m.FindRegistered(context.Background(), uuid.New(), nil)

	require.NoError(t, err)
	require.Len(t, lookup.batches, 3)
	assert.Len(t, lookup.batches[0], 2)
	assert.Len(t, lookup.batches[1], 2)
	assert.Len(t, lookup.batches[2], 1)
}

func TestFindRegisteredSkipsDigitlessContacts(t *testing.T) {
	source := &sourceStub{contacts: []Contact{
		{Name: "Email Only", RawPhone: ""},
		{Name: "Company", RawPhone: "n/a"},
	}}
	lookup := &lookupStub{}
	m := NewMatcher(source, lookup)

	matches, err := m.FindRegistered(context.Background(), uuid.New(), nil)

	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Empty(t, lookup.batches)
}

func TestFindRegisteredPermissionDenied(t *testing.T) {
	source := &sourceStub{err: models.NewPermissionDeniedError("contacts access denied")}
	m := NewMatcher(source, &lookupStub{})

	_, err := m.FindRegistered(context.Background(), uuid.New(), nil)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodePermissionDenied, appErr.Code)
}

func TestFindRegisteredLookupFailure(t *testing.T) {
	source := &sourceStub{contacts: []Contact{{Name: "A", RawPhone: "5551112222"}}}
	lookup := &lookupStub{err: errors.New("network down")}
	m := NewMatcher(source, lookup)

	_, err := m.FindRegistered(context.Background(), uuid.New(), nil)

	assert.Error(t, err)
}

func TestFindRegisteredCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	source := &sourceStub{contacts: []Contact{{Name: "A", RawPhone: "5551112222"}}}
	m := NewMatcher(source, &lookupStub{})

	_, err := m.FindRegistered(ctx, uuid.New(), nil)

	assert.ErrorIs(t, err, context.Canceled)
}
