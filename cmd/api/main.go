// Package main is the entry point for the Bnb API binary.
// Command parsing and wiring live in the command package.
package main

import "github.com/pkordes/bnb/cmd/api/command"

func main() {
	command.Execute()
}
