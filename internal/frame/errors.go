package frame

import "errors"

// Decode errors. Use errors.Is() to check for these in calling code.
var (
	// ErrTruncated is returned when a raw frame lacks the key for the last
	// required offset of an element. The whole frame is discarded; other
	// state updates in the same message proceed unaffected.
	ErrTruncated = errors.New("frame: truncated raw frame")
)
