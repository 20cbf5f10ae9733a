// Package errors holds the failure taxonomy shared by the boot components.
package errors

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors 🗂️ (always recovered with the default record)
	ErrConfigAbsent        = errors.New("❌ configuration file absent")
	ErrConfigSizeMismatch  = errors.New("❌ configuration file size mismatch")
	ErrConfigMagicMismatch = errors.New("❌ wrong configuration file format")
	ErrConfigSanityFailed  = errors.New("❌ configuration sanity check failed")

	// Key errors 🔑
	ErrKeyTooLarge = errors.New("❌ rom key file is too large")

	// Image errors 💾
	ErrUnsupportedImageSize  = errors.New("❌ unsupported rom file size")
	ErrImageFileAbsent       = errors.New("❌ rom file absent")
	ErrTransferReadShortfall = errors.New("❌ short read during rom transfer")

	// Boot errors 🛑
	ErrFatalBootFailure = errors.New("❌ no usable kickstart")
)

// FatalCodeKickstart is the fatal code raised when neither the configured nor
// the fallback kickstart could be uploaded.
const FatalCodeKickstart = 6

// FatalError stops the boot. Code is the numeric fatal code shown to the user.
type FatalError struct {
	Code int
	Err  error
}

func (e *FatalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fatal error %d: %v", e.Code, ErrFatalBootFailure)
	}
	return fmt.Sprintf("fatal error %d: %v: %v", e.Code, ErrFatalBootFailure, e.Err)
}

// Unwrap lets errors.Is match both the sentinel and the cause.
func (e *FatalError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFatalBootFailure}
	}
	return []error{ErrFatalBootFailure, e.Err}
}

// IsFatal reports whether err stops the boot.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatalBootFailure)
}
