package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sitegrid/sitegrid/pkg/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Acme Corp", "acme-corp"},
		{"  Hello   World  ", "hello-world"},
		{"already-a-slug", "already-a-slug"},
		{"Under_scores.and.dots", "under-scores-and-dots"},
		{"Ünïcödé stripped", "ncd-stripped"},
		{"123 Numbers", "123-numbers"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slug.Make(tt.in), "input %q", tt.in)
	}
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, slug.IsValid("acme-corp"))
	assert.True(t, slug.IsValid("a1"))
	assert.False(t, slug.IsValid(""))
	assert.False(t, slug.IsValid("Acme"))
	assert.False(t, slug.IsValid("has space"))
	assert.False(t, slug.IsValid("-leading"))
	assert.False(t, slug.IsValid("trailing-"))
}
