package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestFatalError(t *testing.T) {
	cause := fmt.Errorf("upload KICK.ROM: %w", ErrImageFileAbsent)
	err := &FatalError{Code: FatalCodeKickstart, Err: cause}

	if !strings.Contains(err.Error(), "fatal error 6") {
		t.Errorf("error message should contain the code, got: %s", err.Error())
	}
	if !errors.Is(err, ErrFatalBootFailure) {
		t.Error("fatal error should match ErrFatalBootFailure")
	}
	if !errors.Is(err, ErrImageFileAbsent) {
		t.Error("fatal error should match its cause")
	}
	if !IsFatal(fmt.Errorf("boot: %w", err)) {
		t.Error("IsFatal should see through wrapping")
	}
}

func TestFatalErrorWithoutCause(t *testing.T) {
	err := &FatalError{Code: 3}
	if !IsFatal(err) {
		t.Error("fatal error without cause should still be fatal")
	}
	if IsFatal(ErrKeyTooLarge) {
		t.Error("key errors are not fatal")
	}
}
