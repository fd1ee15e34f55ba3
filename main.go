// Package main is the entry point for the symup CLI.
package main

import "github.com/symup/symup/cmd"

func main() {
	cmd.Execute()
}
