// Command skillctl is the operator CLI: catalog seeding and listing, and
// bearer tokens for local use against the API.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
