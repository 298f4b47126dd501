// Command harvest is the incremental document harvester CLI.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/meridian-labs/harvest/internal/adapters/driving/cli"
)

func main() {
	// A .env in the working directory supplies secrets during development;
	// absence is not an error.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
