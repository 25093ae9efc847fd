package cookie

import "errors"

var (
	ErrCookieNotFound  = errors.New("cookie.not_found")
	ErrInvalidFormat   = errors.New("cookie.invalid_format")
	ErrInvalidName     = errors.New("cookie.invalid_name")
	ErrInvalidMaxAge   = errors.New("cookie.invalid_max_age")
	ErrInvalidSameSite = errors.New("cookie.invalid_same_site")
)
