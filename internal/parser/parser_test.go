package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		line     string
		expected Command
	}{
		{
			line: "ls -la",
			expected: Command{
				Program: "ls",
				Args:    []string{"ls", "-la"},
			},
		},
		{
			line: "echo hi < in.txt > out.txt &",
			expected: Command{
				Program:    "echo",
				Args:       []string{"echo", "hi"},
				Input:      "in.txt",
				Output:     "out.txt",
				Background: true,
			},
		},
		{
			line: "  wc   -l\t< words  ",
			expected: Command{
				Program: "wc",
				Args:    []string{"wc", "-l"},
				Input:   "words",
			},
		},
		{
			line: "sort > sorted < unsorted",
			expected: Command{
				Program: "sort",
				Args:    []string{"sort"},
				Input:   "unsorted",
				Output:  "sorted",
			},
		},
		{
			// Only the last remaining argument marks the command as background.
			line: "sleep & 5",
			expected: Command{
				Program: "sleep",
				Args:    []string{"sleep", "&", "5"},
			},
		},
		{
			line: "sleep 5 & > /dev/null",
			expected: Command{
				Program:    "sleep",
				Args:       []string{"sleep", "5"},
				Output:     "/dev/null",
				Background: true,
			},
		},
		{
			// A lone & is the program, never a background marker.
			line: "&",
			expected: Command{
				Program: "&",
				Args:    []string{"&"},
			},
		},
		{
			line: "echo a<b c>d",
			expected: Command{
				Program: "echo",
				Args:    []string{"echo", "a<b", "c>d"},
			},
		},
		{
			line: "cd /tmp",
			expected: Command{
				Program: "cd",
				Args:    []string{"cd", "/tmp"},
				Builtin: Cd,
			},
		},
		{
			line: "status &",
			expected: Command{
				Program:    "status",
				Args:       []string{"status"},
				Background: true,
				Builtin:    Status,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			actual, err := Parse(tc.line)
			require.NoError(t, err)

			assert.Equal(t, &tc.expected, actual)
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := Parse(" \t ")
		assert.True(t, errors.Is(err, ErrEmpty))
	})

	for _, line := range []string{"cat <", "echo hi >", "ls > out <"} {
		t.Run(line, func(t *testing.T) {
			_, err := Parse(line)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %v", err)
			assert.Equal(t, "missing redirection target", parseErr.Reason)
		})
	}
}

func TestParseManyArguments(t *testing.T) {
	args := make([]string, 2000)
	for i := range args {
		args[i] = "x"
	}

	cmd, err := Parse("echo " + strings.Join(args, " "))
	require.NoError(t, err)
	assert.Len(t, cmd.Args, 2001)
}

func TestIsExit(t *testing.T) {
	assert.True(t, IsExit("exit"))
	assert.True(t, IsExit("exit\n"))
	assert.True(t, IsExit("  exit now"))
	assert.False(t, IsExit("exits"))
	assert.False(t, IsExit("echo exit"))
	assert.False(t, IsExit(""))
}

func TestCommandString(t *testing.T) {
	cmd, err := Parse("sort -r > out < in &")
	require.NoError(t, err)

	assert.Equal(t, "sort -r < in > out &", cmd.String())
	assert.Equal(t, "status", Status.String())
	assert.Equal(t, "external", External.String())
}
