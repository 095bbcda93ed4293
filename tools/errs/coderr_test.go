package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCodeErrorIs(t *testing.T) {
	err := ErrTokenInvalid.WrapMsg("bad signature")
	if !ErrTokenInvalid.Is(err) {
		t.Error("wrapped error must keep its code")
	}
	if ErrTokenExpired.Is(err) {
		t.Error("codes must not match across kinds")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !ErrTokenInvalid.Is(wrapped) {
		t.Error("Is must see through fmt wrapping")
	}
}

func TestWithDetailAccumulates(t *testing.T) {
	e := ErrBrokerPublish.WithDetail("first").WithDetail("second")
	if e.Detail != "first, second" {
		t.Errorf("detail = %q", e.Detail)
	}
	// The original sentinel must stay untouched.
	if ErrBrokerPublish.Detail != "" {
		t.Errorf("sentinel mutated: %q", ErrBrokerPublish.Detail)
	}
}

func TestErrorString(t *testing.T) {
	s := ErrEmptyContent.WithDetail("room=general").Error()
	if !strings.Contains(s, "12001") && !strings.Contains(s, ErrEmptyContent.Msg) {
		t.Errorf("error string = %q", s)
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) must be nil")
	}
	if WrapMsg(nil, "ctx") != nil {
		t.Error("WrapMsg(nil) must be nil")
	}
}

func TestWrapMsgKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapMsg(cause, "save message", "room", "general")
	if !errors.Is(err, cause) {
		t.Error("cause must survive wrapping")
	}
	if !strings.Contains(err.Error(), "room=general") {
		t.Errorf("error = %q, want key=value context", err.Error())
	}
}
