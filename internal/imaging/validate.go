package imaging

const (
	// MaxImageBytes is the largest accepted payload size.
	MaxImageBytes = 10 * 1024 * 1024
	// MinImageBytes is the smallest payload that can plausibly be an image.
	MinImageBytes = 100
)

// Rejection reasons reported to callers. These are part of the external
// contract, not free-form messages.
const (
	ReasonTooLarge          = "too large"
	ReasonUnsupportedFormat = "unsupported format"
	ReasonInvalidImageData  = "invalid image data"
)

// Validate applies the acceptance rules to an image payload and returns
// whether it is accepted, plus a rejection reason when it is not.
// The check order is fixed: size cap, then format, then minimum size.
// An oversized buffer of unknown format reports "too large".
func Validate(data []byte) (bool, string) {
	if len(data) > MaxImageBytes {
		return false, ReasonTooLarge
	}
	if Sniff(data) == FormatUnknown {
		return false, ReasonUnsupportedFormat
	}
	if len(data) < MinImageBytes {
		return false, ReasonInvalidImageData
	}
	return true, ""
}
