// Elkhorn - a local filesystem cache for remote GitHub repositories
package main

import (
	"os"

	"github.com/HartBrook/elkhorn/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
