// Package session implements stateless sessions stored entirely in one
// encrypted HTTP cookie. There is no server-side store: the cookie carries
// an envelope {"data":{...},"expireAt":<unix ms>} encrypted with the newest
// signing key, and every configured key is tried when reading it back.
//
// # Architecture
//
// A Manager is built once with the signing keys and cookie attributes. On
// each request Load returns a Session; the handler mutates it and calls
// Save, which writes a Set-Cookie header.
//
//	┌────────┐  cookie  ┌──────────┐  keys[i]  ┌──────────────┐
//	│ Client │ ───────► │ Manager  │ ────────► │ keyring      │
//	└────────┘          │ Load     │           │ Resolver     │
//	     ▲              │ Save     │ ◄──────── │ (guarded)    │
//	     └───────────── └──────────┘ envelope  └──────────────┘
//
// Load never fails. A missing, tampered, expired or foreign cookie produces an
// empty session in StateNew. Save returns an error wrapping ErrSaveFailed when
// encryption fails, times out or the encoded cookie exceeds the size budget;
// in that case no header is written.
//
// # Usage
//
//	manager, err := session.New([]string{newKey, oldKey},
//	    session.WithMaxAge(3600),
//	    session.WithCookieOptions(cookie.WithSecure(true)),
//	)
//	if err != nil {
//	    return err
//	}
//
//	mux.Handle("/", manager.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	    sess := session.MustFromContext(r.Context())
//	    sess.Set("role", "admin")
//	    if err := sess.Save(r.Context()); err != nil {
//	        http.Error(w, "session", http.StatusInternalServerError)
//	    }
//	})))
//
// # Expiry
//
// The envelope expiry is computed once, on the first save, as now plus the
// cookie MaxAge, and reused by later saves. A restored session keeps the
// expiry it was issued with, so saving it does not extend its lifetime;
// call Touch for rolling sessions. Saving an empty session emits a deletion
// cookie.
//
// # Custom Providers
//
// The default provider is AES-256-GCM. WithFuncs, WithCallbacks and
// WithFutures adapt other calling conventions; each call is bounded by
// the configured timeout. WithCheckEncryption round-trips a probe through
// a custom provider during New.
//
// # Error Handling
//
//   - ErrInvalidConfig  – construction options are invalid
//   - ErrSaveFailed     – wraps every Save failure (async.ErrTimeout, keyring.ErrTooLarge, ...)
//   - ErrSelfCheck      – matched by *SelfCheckError
//   - ErrNotLoaded      – Save on a Session not obtained from Load
package session
