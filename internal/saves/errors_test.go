package saves

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "connect error",
			err:  &ConnectError{Device: "Switch", Err: errors.New("connection refused")},
			want: StatusConnectFailed,
		},
		{
			name: "auth error",
			err:  &AuthError{Device: "Switch", Err: errors.New("530 login incorrect")},
			want: StatusAuthFailed,
		},
		{
			name: "path error",
			err:  &PathError{Device: "Switch", Path: "saves/", Err: errors.New("550 no such directory")},
			want: StatusPathFailed,
		},
		{
			name: "wrapped connect error",
			err:  fmt.Errorf("during run: %w", &ConnectError{Device: "Switch", Err: errors.New("timeout")}),
			want: StatusConnectFailed,
		},
		{
			name: "plain transfer error",
			err:  errors.New("short read"),
			want: StatusTransferFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyFailure(tt.err); got != tt.want {
				t.Errorf("classifyFailure() = %q, want %q", got, tt.want)
			}
		})
	}
}
