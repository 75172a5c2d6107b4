// recwatch tracks whether a flat key-value record has diverged from its
// committed baseline.
package main

import (
	"os"

	"github.com/hupe1980/recwatch/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
