package credentials

import "errors"

// ErrTokenFile is returned when the token file cannot be read.
var ErrTokenFile = errors.New("read token file")
