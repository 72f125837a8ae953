package notes

import (
	"errors"
	"fmt"
)

// InputError is a problem with the upload itself (no file, unreadable PDF).
// Handlers show Msg on the page and finish the request normally.
type InputError struct {
	Msg string
	Err error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *InputError) Unwrap() error { return e.Err }

// UpstreamError is a failed call to the generative-text API.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// AssetError is a font that could not be obtained. It never reaches the user.
type AssetError struct {
	File string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("font %s unavailable: %v", e.File, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

// IsInputError reports whether err carries a user-facing message.
func IsInputError(err error) (*InputError, bool) {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// IsUpstreamError reports whether err came from the generation provider.
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
