// Package main is the entry point for the fieldmigrate CLI binary.
package main

import (
	"os"

	cli "github.com/byronwade/fieldmigrate/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
