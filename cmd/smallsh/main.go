package main

import (
	"os"

	"smallsh/internal/launcher"
)

func main() {
	// A re-executed child never reaches the command line parser.
	launcher.Init()
	os.Exit(Execute())
}
