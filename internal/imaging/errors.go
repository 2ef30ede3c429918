package imaging

import "errors"

var (
	// ErrRejected indicates the payload failed validation. The wrapped
	// message carries the rejection reason; nothing was staged.
	ErrRejected = errors.New("image rejected")
)
