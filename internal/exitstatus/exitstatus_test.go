package exitstatus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestString(t *testing.T) {
	cases := []struct {
		status   Status
		expected string
	}{
		{Status{}, "exit value 0"},
		{Exited(1), "exit value 1"},
		{Exited(2), "exit value 2"},
		{Exited(9), "exit value 9"},
		{Signaled(9), "terminated by signal 9"},
		{Signaled(15), "terminated by signal 15"},
	}

	for _, tc := range cases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.String())
		})
	}
}

func TestExitCodeAndSignalAreDistinct(t *testing.T) {
	assert.NotEqual(t, Exited(9), Signaled(9))
	assert.Equal(t, 9, Exited(9).Code())
	assert.Equal(t, 9, Signaled(9).Code())
	assert.True(t, Signaled(9).Signaled())
	assert.False(t, Exited(9).Signaled())
	assert.True(t, Status{}.Success())
	assert.False(t, Signaled(0).Success())
}

func TestFromWaitStatus(t *testing.T) {
	// Linux encodes the exit code in bits 8-15 and the signal in bits 0-6.
	assert.Equal(t, Exited(3), FromWaitStatus(unix.WaitStatus(3<<8)))
	assert.Equal(t, Exited(0), FromWaitStatus(unix.WaitStatus(0)))
	assert.Equal(t, Signaled(int(unix.SIGKILL)), FromWaitStatus(unix.WaitStatus(unix.SIGKILL)))
}
