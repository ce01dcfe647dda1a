package phonehash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Golden vectors pin the cross-component hashing contract. If one of these
// fails, client and server matching has silently diverged.
func TestHashGoldenVectors(t *testing.T) {
	vectors := map[string]string{
		"5551234567":       "3c95277da5fd0da6a1a44ee3fdf56d20af6c6d242695a40e18e6e90dc3c5872c",
		"+1 (555) 123-4567": "3c95277da5fd0da6a1a44ee3fdf56d20af6c6d242695a40e18e6e90dc3c5872c",
		"15551234567":      "3c95277da5fd0da6a1a44ee3fdf56d20af6c6d242695a40e18e6e90dc3c5872c",
		"5551112222":       "b1ff90468e28ccae2fe9ea0cc8f88c6255736d8368eaeea2349c05bcfbd44c53",
		// Short numbers hash over fewer digits rather than erroring.
		"123": "a665a45920422f9d417e4867efdc4fb8a04a1f3fff1fa07e998e86f7f7a27ae3",
		// Empty input hashes the empty digit string.
		"":          "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		"no digits": "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
	}

	for input, want := range vectors {
		assert.Equal(t, want, Hash(input), "input %q", input)
	}
}

func TestHashDependsOnlyOnLastTenDigits(t *testing.T) {
	base := Hash("5551234567")

	assert.Equal(t, base, Hash("+1 (555) 123-4567"))
	assert.Equal(t, base, Hash("15551234567"))
	assert.Equal(t, base, Hash("001-555-123-4567"))
	assert.Equal(t, base, Hash("555.123.4567"))

	// An eleventh digit that changes nothing in the last ten still collides;
	// this is the documented tradeoff, not a bug.
	assert.Equal(t, base, Hash("95551234567"))

	assert.NotEqual(t, base, Hash("5551234568"))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+1 (555) 123-4567", "5551234567"},
		{"5551234567", "5551234567"},
		{"15551234567", "5551234567"},
		{"123", "123"},
		{"", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestHashIsDeterministic(t *testing.T) {
	for _, input := range []string{"5551234567", "+44 20 7946 0958", "", "x"} {
		assert.Equal(t, Hash(input), Hash(input))
	}
}
