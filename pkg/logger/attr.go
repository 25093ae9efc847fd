package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Cookie records the session cookie name under the key "cookie".
func Cookie(name string) slog.Attr {
	return slog.String("cookie", name)
}

// KeyIndex records the position of a signing key under the key "key_index".
// Keys themselves must never be logged.
func KeyIndex(i int) slog.Attr {
	return slog.Int("key_index", i)
}

// Outcome records a load or save outcome under the key "outcome".
func Outcome(o string) slog.Attr {
	return slog.String("outcome", o)
}

// Label records the name of a guarded operation under the key "label".
func Label(l string) slog.Attr {
	return slog.String("label", l)
}

// Size records a byte count under the key "bytes".
func Size(n int) slog.Attr {
	return slog.Int("bytes", n)
}
