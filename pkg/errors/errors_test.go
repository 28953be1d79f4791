package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidDimension, "width must be positive, got %g", -3.5)
	msg := err.Error()
	if !strings.Contains(msg, "INVALID_DIMENSION") {
		t.Errorf("message missing code: %q", msg)
	}
	if !strings.Contains(msg, "-3.5") {
		t.Errorf("message missing formatted arg: %q", msg)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("unexpected EOF")
	err := Wrap(ErrCodeDecode, cause, "decode %s", "broken.png")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if !strings.Contains(err.Error(), "unexpected EOF") {
		t.Errorf("message should include cause: %q", err.Error())
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := New(ErrCodeDecode, "bad image")

	if !Is(err, ErrCodeDecode) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeRender) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeDecode) {
		t.Error("Is should not match plain errors")
	}
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	inner := New(ErrCodeInvalidDimension, "zero height")
	outer := Wrap(ErrCodeInternal, inner, "normalize rectangles")

	// The outermost code wins, but the inner error stays reachable.
	if !Is(outer, ErrCodeInternal) {
		t.Error("outer code should match")
	}
	var e *Error
	if !stderrors.As(stderrors.Unwrap(outer), &e) || e.Code != ErrCodeInvalidDimension {
		t.Error("inner coded error should be reachable via Unwrap")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeRender, "boom")); got != ErrCodeRender {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeRender)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidPaper, "unknown paper size")
	if got := UserMessage(err); got != "unknown paper size" {
		t.Errorf("UserMessage = %q", got)
	}
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}
