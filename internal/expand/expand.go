// Package expand rewrites the pid marker in a raw input line.
package expand

import (
	"strconv"
	"strings"
)

// Marker is replaced by the interpreter's process id.
const Marker = "$$"

// Expand replaces every non-overlapping occurrence of Marker, scanning left
// to right, with the decimal form of pid. A trailing newline is dropped.
func Expand(line string, pid int) string {
	line = strings.TrimSuffix(line, "\n")
	if !strings.Contains(line, Marker) {
		return line
	}
	return strings.ReplaceAll(line, Marker, strconv.Itoa(pid))
}
