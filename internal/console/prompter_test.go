package console

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompterReadsLines(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(": ", strings.NewReader("ls -la\n\nexit"), &out)

	line, err := p.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "ls -la", line)

	line, err = p.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "", line)

	// A final line without a newline is still returned.
	line, err = p.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "exit", line)

	_, err = p.ReadLine()
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, ": : : : ", out.String())
	assert.NoError(t, p.Close())
}

func TestPrompterAnnounceOutsideRead(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(": ", strings.NewReader(""), &out)

	p.Announce("Exiting foreground-only mode")
	assert.Equal(t, "Exiting foreground-only mode\n", out.String())
}

func TestPrompterAnnounceDuringRead(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	var out syncBuffer
	p := NewPrompter(": ", r, &out)

	done := make(chan string)
	go func() {
		line, _ := p.ReadLine()
		done <- line
	}()

	// Wait for the prompt so the read is known to be pending.
	require.Eventually(t, func() bool { return out.String() == ": " }, waitFor, tick)
	p.Announce("Entering foreground-only mode (& is now ignored)")

	_, err = w.Write([]byte("status\n"))
	require.NoError(t, err)
	w.Close()

	assert.Equal(t, "status", <-done)
	assert.Equal(t, ": \nEntering foreground-only mode (& is now ignored)\n: ", out.String())
}

func TestNewPicksPrompterForFiles(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "input")
	require.NoError(t, err)
	defer f.Close()

	c, err := New(": ", f, io.Discard)
	require.NoError(t, err)
	assert.IsType(t, &Prompter{}, c)
}
