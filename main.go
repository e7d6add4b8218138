// Package main is the entry point for the fuzzgen CLI.
package main

import "gooze.dev/pkg/fuzzgen/cmd"

func main() {
	cmd.Execute()
}
