// Pillbox - a command-line medication reminder.
package main

import (
	"os"

	"github.com/dhnguyen/pillbox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
