package slug

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":             "hello-world",
		"  Leading and trailing  ":  "leading-and-trailing",
		"snake_case__title":         "snake-case-title",
		"multiple --- hyphens":      "multiple-hyphens",
		"---":                       "",
		"!!!":                       "",
		"Café Économie 2024":        "café-économie-2024",
		"中文 标题":                     "中文-标题",
		"tabs\tand\nnewlines":       "tabs-and-newlines",
		"../../etc/passwd":          "etcpasswd",
		"Already-a-slug":            "already-a-slug",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Hello, World!", " a_b-c d ", "Ünïcödé — Dash", "x", "", "__--__", "Tech & Finance: Q3"}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "input %q", in)
	}
}

type memChecker map[string]uint64

func (m memChecker) SlugExists(_ context.Context, s string, excludingID *uint64) (bool, error) {
	id, ok := m[s]
	if !ok {
		return false, nil
	}
	if excludingID != nil && *excludingID == id {
		return false, nil
	}
	return true, nil
}

func TestEnsureUnique(t *testing.T) {
	ctx := context.Background()
	taken := memChecker{}

	first, err := EnsureUnique(ctx, "Hello, World!", taken, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", first)
	taken[first] = 1

	second, err := EnsureUnique(ctx, "hello world", taken, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello-world-1", second)
	taken[second] = 2

	third, err := EnsureUnique(ctx, "HELLO   WORLD", taken, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", third)
}

func TestEnsureUniqueExcludesSelf(t *testing.T) {
	taken := memChecker{"hello-world": 7}
	self := uint64(7)
	got, err := EnsureUnique(context.Background(), "Hello World", taken, &self)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", got)
}

func TestEnsureUniqueEmptyBase(t *testing.T) {
	taken := memChecker{}
	got, err := EnsureUnique(context.Background(), "?!?", taken, nil)
	require.NoError(t, err)
	assert.Equal(t, "-1", got)
	taken[got] = 1

	got, err = EnsureUnique(context.Background(), "...", taken, nil)
	require.NoError(t, err)
	assert.Equal(t, "-2", got)
}

func TestEnsureUniquePropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	checker := CheckerFunc(func(context.Context, string, *uint64) (bool, error) { return false, boom })
	_, err := EnsureUnique(context.Background(), "x", checker, nil)
	assert.ErrorIs(t, err, boom)
}

func TestEnsureUniqueHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := EnsureUnique(ctx, "x", memChecker{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
