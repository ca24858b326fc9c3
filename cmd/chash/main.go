// Command chash demonstrates the chash map and runs its benchmark tooling.
package main

import (
	"fmt"
	"os"

	"github.com/theflywheel/chash/internal/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
