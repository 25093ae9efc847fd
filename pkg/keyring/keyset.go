package keyring

import "fmt"

// KeySet is an ordered, immutable list of signing keys. The first key is the
// only one used for encryption; every key is accepted for decryption.
type KeySet struct {
	keys []string
}

// NewKeySet validates and copies keys. New keys are rotated in by
// prepending them; old keys stay valid while they remain in the list.
func NewKeySet(keys ...string) (KeySet, error) {
	if len(keys) == 0 {
		return KeySet{}, ErrNoKeys
	}
	for i, k := range keys {
		if k == "" {
			return KeySet{}, fmt.Errorf("%w: key %d", ErrEmptyKey, i)
		}
	}
	return KeySet{keys: append([]string(nil), keys...)}, nil
}

// Primary returns the encryption key.
func (k KeySet) Primary() string {
	if len(k.keys) == 0 {
		return ""
	}
	return k.keys[0]
}

// Keys returns a copy of all keys in trust order.
func (k KeySet) Keys() []string {
	return append([]string(nil), k.keys...)
}

func (k KeySet) Len() int {
	return len(k.keys)
}
