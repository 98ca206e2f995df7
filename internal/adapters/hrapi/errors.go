package hrapi

import "errors"

// ErrNotReady is returned by Live.Latest before the first result arrives.
var ErrNotReady = errors.New("no result yet")
