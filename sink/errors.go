package sink

import "errors"

// ErrClosed is returned by a sink that has already been completed or failed.
var ErrClosed = errors.New("sink: closed")
