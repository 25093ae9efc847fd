package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// Envelope is the structure encrypted into the session cookie.
type Envelope struct {
	// Data holds the caller's session fields and nothing else.
	Data map[string]any `json:"data"`

	// ExpireAt is an absolute Unix timestamp in milliseconds.
	ExpireAt int64 `json:"expireAt"`
}

// New builds an envelope that expires at the given instant.
func New(data map[string]any, expireAt time.Time) Envelope {
	if data == nil {
		data = map[string]any{}
	}
	return Envelope{Data: data, ExpireAt: expireAt.UnixMilli()}
}

// Expiry returns ExpireAt as a time.Time.
func (e Envelope) Expiry() time.Time {
	return time.UnixMilli(e.ExpireAt)
}

// Expired reports whether now is strictly after the expiry instant.
func (e Envelope) Expired(now time.Time) bool {
	return now.UnixMilli() > e.ExpireAt
}

// Marshal produces the canonical JSON form. Map keys are emitted in sorted
// order, so equal envelopes always serialize to equal bytes. Strings that
// are not valid UTF-8 are rejected with ErrEncode, since they could not
// round-trip unchanged.
func Marshal(e Envelope) ([]byte, error) {
	if e.Data == nil {
		e.Data = map[string]any{}
	}
	b, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	if path := checkUTF8(reflect.ValueOf(e.Data), "data"); path != "" {
		return nil, fmt.Errorf("%w: invalid UTF-8 in %s", ErrEncode, path)
	}
	return b, nil
}

// wire keeps both fields raw so presence and type can be checked.
type wire struct {
	Data     json.RawMessage `json:"data"`
	ExpireAt json.RawMessage `json:"expireAt"`
}

// Parse validates and decodes a decrypted payload. Anything that is not an
// object with an object "data" and an integer "expireAt" is ErrMalformed.
func Parse(b []byte) (Envelope, error) {
	var w wire
	if err := json.Unmarshal(b, &w); err != nil {
		return Envelope{}, errors.Join(ErrMalformed, err)
	}

	data := bytes.TrimSpace(w.Data)
	if len(data) == 0 || data[0] != '{' {
		return Envelope{}, ErrMalformed
	}

	var env Envelope
	if err := json.Unmarshal(data, &env.Data); err != nil {
		return Envelope{}, errors.Join(ErrMalformed, err)
	}

	expireAt := bytes.TrimSpace(w.ExpireAt)
	if len(expireAt) == 0 || (expireAt[0] != '-' && (expireAt[0] < '0' || expireAt[0] > '9')) {
		return Envelope{}, ErrMalformed
	}
	var n json.Number
	if err := json.Unmarshal(expireAt, &n); err != nil {
		return Envelope{}, errors.Join(ErrMalformed, err)
	}
	ms, err := n.Int64()
	if err != nil {
		return Envelope{}, errors.Join(ErrMalformed, err)
	}
	env.ExpireAt = ms

	return env, nil
}

// Open parses b and rejects envelopes that expired before now.
func Open(b []byte, now time.Time) (Envelope, error) {
	env, err := Parse(b)
	if err != nil {
		return Envelope{}, err
	}
	if env.Expired(now) {
		return Envelope{}, ErrExpired
	}
	return env, nil
}
