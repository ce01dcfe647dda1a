package contacts

import (
	"context"
	"sort"
	"sync"

	"revlink/internal/models"
	"revlink/internal/phonehash"

	"github.com/google/uuid"
)

// Lookup resolves a batch of phone hashes to registered profiles. Implemented
// server-side by the match service and, on device, by the API client.
type Lookup interface {
	LookupByHashes(ctx context.Context, hashes []string) ([]models.User, error)
}

const (
	// defaultChunkSize bounds the number of hashes per lookup request.
	// Lookups are read-only and safe to retry, so smaller requests are
	// strictly safer than one giant one.
	defaultChunkSize = 500
	// defaultHashWorkers bounds the CPU-bound hashing fan-out.
	defaultHashWorkers = 4
)

// Matcher drives contact discovery: hash every device contact in parallel,
// resolve the hashes in chunks, and filter out profiles the user already has
// a relationship with.
type Matcher struct {
	source    Source
	lookup    Lookup
	chunkSize int
	workers   int
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithChunkSize overrides the lookup batch size.
func WithChunkSize(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.chunkSize = n
		}
	}
}

// WithHashWorkers overrides the hashing parallelism.
func WithHashWorkers(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.workers = n
		}
	}
}

// NewMatcher returns a Matcher over the given contact source and lookup.
func NewMatcher(source Source, lookup Lookup, opts ...Option) *Matcher {
	m := &Matcher{
		source:    source,
		lookup:    lookup,
		chunkSize: defaultChunkSize,
		workers:   defaultHashWorkers,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match pairs a registered profile with the local contact name it was
// discovered under.
type Match struct {
	Profile     models.User `json:"profile"`
	ContactName string      `json:"contact_name"`
}

// FindRegistered reads device contacts, hashes them, and returns the profiles
// already registered, excluding the caller and any profile in exclude
// (existing friends and pending requests — the server does not need to know
// the caller's graph for this call). Cancelling ctx discards the in-flight
// result.
func (m *Matcher) FindRegistered(ctx context.Context, selfID uuid.UUID, exclude map[uuid.UUID]bool) ([]Match, error) {
	deviceContacts, err := m.source.Contacts(ctx)
	if err != nil {
		return nil, err
	}
	if len(deviceContacts) == 0 {
		return []Match{}, nil
	}

	hashSet := m.buildHashSetParallel(ctx, deviceContacts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hashes := make([]string, 0, len(hashSet))
	for h := range hashSet {
		hashes = append(hashes, h)
	}
	// Deterministic request contents make retries and tests reproducible.
	sort.Strings(hashes)

	var matches []Match
	for start := 0; start < len(hashes); start += m.chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + m.chunkSize
		if end > len(hashes) {
			end = len(hashes)
		}

		profiles, err := m.lookup.LookupByHashes(ctx, hashes[start:end])
		if err != nil {
			return nil, err
		}
		for _, p := range profiles {
			if p.ID == selfID || exclude[p.ID] {
				continue
			}
			name := ""
			if p.PhoneHash != nil {
				name = hashSet[*p.PhoneHash]
			}
			matches = append(matches, Match{Profile: p, ContactName: name})
		}
	}
	if matches == nil {
		matches = []Match{}
	}
	return matches, nil
}

// buildHashSetParallel hashes contacts over a small worker pool. Hashing has
// no shared mutable state, so the only coordination is the index-addressed
// result slice; the sequential fold afterwards keeps first-seen-name-wins
// deterministic regardless of worker scheduling.
func (m *Matcher) buildHashSetParallel(ctx context.Context, deviceContacts []Contact) map[string]string {
	workers := m.workers
	if workers > len(deviceContacts) {
		workers = len(deviceContacts)
	}

	hashes := make([]string, len(deviceContacts))
	indices := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indices {
				// Contacts with no digits at all (company entries,
				// email-only cards) have nothing to match on.
				if phonehash.Normalize(deviceContacts[i].RawPhone) == "" {
					continue
				}
				hashes[i] = phonehash.Hash(deviceContacts[i].RawPhone)
			}
		}()
	}

feed:
	for i := range deviceContacts {
		select {
		case <-ctx.Done():
			break feed
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()

	set := make(map[string]string, len(deviceContacts))
	for i, h := range hashes {
		if h == "" {
			continue
		}
		if _, ok := set[h]; !ok {
			set[h] = deviceContacts[i].Name
		}
	}
	return set
}
