package keyring_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cookiesession/pkg/async"
	"github.com/dmitrymomot/cookiesession/pkg/envelope"
	"github.com/dmitrymomot/cookiesession/pkg/keyring"
	"github.com/dmitrymomot/cookiesession/pkg/sealer"
)

func mustKeys(t *testing.T, keys ...string) keyring.KeySet {
	t.Helper()
	ks, err := keyring.NewKeySet(keys...)
	require.NoError(t, err)
	return ks
}

func TestNewKeySet(t *testing.T) {
	t.Parallel()

	_, err := keyring.NewKeySet()
	assert.ErrorIs(t, err, keyring.ErrNoKeys)

	_, err = keyring.NewKeySet("k1", "")
	assert.ErrorIs(t, err, keyring.ErrEmptyKey)
	assert.Contains(t, err.Error(), "key 1")

	src := []string{"k2", "k1"}
	ks, err := keyring.NewKeySet(src...)
	require.NoError(t, err)
	assert.Equal(t, "k2", ks.Primary())
	assert.Equal(t, 2, ks.Len())

	// the set owns its copy
	src[0] = "mutated"
	assert.Equal(t, "k2", ks.Primary())
	keys := ks.Keys()
	keys[0] = "mutated"
	assert.Equal(t, "k2", ks.Primary())
}

func TestResolver_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	r := keyring.NewResolver(mustKeys(t, "k1"))
	in := envelope.New(map[string]any{"role": "admin"}, time.Now().Add(time.Hour))

	token, err := r.Seal(ctx, in)
	require.NoError(t, err)

	out, idx, err := r.Open(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, in.ExpireAt, out.ExpireAt)
	assert.Equal(t, "admin", out.Data["role"])
}

func TestResolver_RotationKeepsOldCookiesValid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	in := envelope.New(map[string]any{"n": 1}, time.Now().Add(time.Hour))

	old := keyring.NewResolver(mustKeys(t, "k1"))
	token, err := old.Seal(ctx, in)
	require.NoError(t, err)

	for _, keys := range [][]string{
		{"k2", "k1"},
		{"k4", "k3", "k2", "k1"},
		{"k3", "k1", "k2"},
	} {
		r := keyring.NewResolver(mustKeys(t, keys...))
		out, idx, err := r.Open(ctx, token)
		require.NoError(t, err, "keys %v", keys)
		assert.Equal(t, keys[idx], "k1")
		assert.Equal(t, in.ExpireAt, out.ExpireAt)
	}

	// removing the old key invalidates the cookie
	_, _, err = keyring.NewResolver(mustKeys(t, "k2")).Open(ctx, token)
	assert.ErrorIs(t, err, keyring.ErrExhausted)
}

func TestResolver_SealUsesPrimaryKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	r := keyring.NewResolver(mustKeys(t, "k2", "k1"))
	token, err := r.Seal(ctx, envelope.New(map[string]any{"a": 1}, time.Now().Add(time.Hour)))
	require.NoError(t, err)

	plaintext, err := sealer.NewAESGCM().Decrypt(ctx, token, "k2")
	require.NoError(t, err)
	assert.Contains(t, plaintext, `"data":{"a":1}`)
}

func TestResolver_ExpiredUnderAnyKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	expired := envelope.New(map[string]any{"a": 1}, time.Now().Add(-time.Second))

	for _, keys := range [][]string{{"k1"}, {"k2", "k1"}} {
		token, err := keyring.NewResolver(mustKeys(t, "k1")).Seal(ctx, expired)
		require.NoError(t, err)

		_, _, err = keyring.NewResolver(mustKeys(t, keys...)).Open(ctx, token)
		require.ErrorIs(t, err, keyring.ErrExhausted)

		var ex *keyring.ExhaustedError
		require.ErrorAs(t, err, &ex)
		last := ex.Attempts[len(ex.Attempts)-1]
		assert.ErrorIs(t, last.Err, envelope.ErrExpired)
	}
}

func TestResolver_ClockControlsExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	r := keyring.NewResolver(mustKeys(t, "k1"), keyring.WithClock(func() time.Time { return now }))
	token, err := r.Seal(ctx, envelope.New(map[string]any{"a": 1}, now.Add(time.Minute)))
	require.NoError(t, err)

	_, _, err = r.Open(ctx, token)
	require.NoError(t, err)

	later := keyring.NewResolver(mustKeys(t, "k1"),
		keyring.WithClock(func() time.Time { return now.Add(2 * time.Minute) }))
	_, _, err = later.Open(ctx, token)
	assert.ErrorIs(t, err, keyring.ErrExhausted)
}

func TestResolver_GarbageYieldsExhausted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := keyring.NewResolver(mustKeys(t, "k2", "k1"))

	nonJSON, err := sealer.NewAESGCM().Encrypt(ctx, "definitely not json", "k1")
	require.NoError(t, err)

	valid, err := r.Seal(ctx, envelope.New(map[string]any{"a": 1}, time.Now().Add(time.Hour)))
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(valid)
	require.NoError(t, err)
	raw[12] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	for name, token := range map[string]string{
		"bad base64": "!!!",
		"short":      "AAAA",
		"tampered":   tampered,
		"non json":   nonJSON,
	} {
		_, idx, err := r.Open(ctx, token)
		assert.ErrorIs(t, err, keyring.ErrExhausted, name)
		assert.Equal(t, -1, idx, name)

		var ex *keyring.ExhaustedError
		require.ErrorAs(t, err, &ex, name)
		assert.Len(t, ex.Attempts, 2, name)
	}

	_, _, err = r.Open(ctx, "")
	assert.ErrorIs(t, err, keyring.ErrEmptyToken)
}

// recordingProvider logs decrypt calls and lets tests hang specific keys.
type recordingProvider struct {
	mu    sync.Mutex
	calls []string
	hang  map[string]bool
	inner sealer.Provider
}

func (p *recordingProvider) Encrypt(ctx context.Context, plaintext, key string) (string, error) {
	return p.inner.Encrypt(ctx, plaintext, key)
}

func (p *recordingProvider) Decrypt(ctx context.Context, token, key string) (string, error) {
	p.mu.Lock()
	p.calls = append(p.calls, key)
	p.mu.Unlock()
	if p.hang[key] {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return p.inner.Decrypt(ctx, token, key)
}

func (p *recordingProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func TestResolver_SequentialOrderAndShortCircuit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p := &recordingProvider{inner: sealer.NewAESGCM()}
	token, err := keyring.NewResolver(mustKeys(t, "k2")).Seal(ctx,
		envelope.New(map[string]any{"a": 1}, time.Now().Add(time.Hour)))
	require.NoError(t, err)

	r := keyring.NewResolver(mustKeys(t, "k3", "k2", "k1"), keyring.WithProvider(p))
	_, idx, err := r.Open(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, []string{"k3", "k2"}, p.Calls())
}

func TestResolver_TimeoutAdvancesToNextKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	p := &recordingProvider{inner: sealer.NewAESGCM(), hang: map[string]bool{"k2": true}}
	token, err := keyring.NewResolver(mustKeys(t, "k1")).Seal(ctx,
		envelope.New(map[string]any{"a": 1}, time.Now().Add(time.Hour)))
	require.NoError(t, err)

	r := keyring.NewResolver(mustKeys(t, "k2", "k1"),
		keyring.WithProvider(p), keyring.WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, idx, err := r.Open(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, []string{"k2", "k1"}, p.Calls())
}

func TestResolver_SealTimeout(t *testing.T) {
	t.Parallel()

	hung, err := sealer.Funcs(
		func(ctx context.Context, _, _ string) (string, error) { <-ctx.Done(); return "", ctx.Err() },
		func(ctx context.Context, _, _ string) (string, error) { return "", errors.New("unused") },
	)
	require.NoError(t, err)

	r := keyring.NewResolver(mustKeys(t, "k1"),
		keyring.WithProvider(hung), keyring.WithTimeout(30*time.Millisecond))
	_, err = r.Seal(context.Background(), envelope.New(map[string]any{"a": 1}, time.Now()))

	var te *async.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, keyring.LabelEncrypt, te.Label)
	assert.Equal(t, 30*time.Millisecond, te.Timeout)
}

func TestResolver_StopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	p := &recordingProvider{inner: sealer.NewAESGCM(), hang: map[string]bool{"k3": true}}
	r := keyring.NewResolver(mustKeys(t, "k3", "k2", "k1"),
		keyring.WithProvider(p), keyring.WithTimeout(time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := r.Open(ctx, "token")
	assert.ErrorIs(t, err, keyring.ErrExhausted)
	assert.Equal(t, []string{"k3"}, p.Calls())
}

func TestCheckSize(t *testing.T) {
	t.Parallel()

	assert.NoError(t, keyring.CheckSize(strings.Repeat("a", 4096), 4096))

	err := keyring.CheckSize(strings.Repeat("a", 4097), 4096)
	require.ErrorIs(t, err, keyring.ErrTooLarge)
	var se *keyring.SizeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 4097, se.Actual)
	assert.Equal(t, 4096, se.Max)

	// the budget applies to the escaped form, which can be larger than the raw token
	raw := strings.Repeat("+/=", 1000)
	assert.NoError(t, keyring.CheckSize(raw, 3000))
	assert.ErrorIs(t, keyring.CheckSize(url.QueryEscape(raw), 3000), keyring.ErrTooLarge)

	assert.NoError(t, keyring.CheckSize("abc", 0))
}
