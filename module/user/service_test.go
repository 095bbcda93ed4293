package user

import (
	"context"
	"testing"

	"relaychat/tools/security"
)

func TestRegisterRejectsEmptyInput(t *testing.T) {
	s := NewService(nil, security.DefaultOptions([]byte("secret")))

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"both empty", "", ""},
		{"empty password", "alice", ""},
		{"empty username", "", "pw"},
		{"whitespace username", "   ", "pw"},
	}
	for _, tc := range cases {
		err := s.Register(context.Background(), tc.username, tc.password)
		if !ErrBadInput.Is(err) {
			t.Errorf("%s: err = %v, want ErrBadInput", tc.name, err)
		}
	}
}
