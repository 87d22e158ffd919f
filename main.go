// Package main provides the entry point for the maglev tracker.
package main

import "maglev-tracker/internal/cli"

func main() {
	cli.Execute()
}
