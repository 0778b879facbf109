// Command vaulty is the Vaulty CLI entry point.
package main

import (
	"os"

	"github.com/vaulty-app/vaulty/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
