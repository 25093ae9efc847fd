package keyring

// DefaultMaxSize is the per-cookie budget most browsers honour.
const DefaultMaxSize = 4096

// CheckSize rejects an encoded cookie value longer than max bytes.
// The value must already be in its transport (percent-encoded) form.
func CheckSize(encoded string, max int) error {
	if max <= 0 {
		max = DefaultMaxSize
	}
	if len(encoded) > max {
		return &SizeError{Actual: len(encoded), Max: max}
	}
	return nil
}
