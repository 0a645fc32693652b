// Package main is the entry point for the userctl binary.
package main

import (
	"os"

	"userctl/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
