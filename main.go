// Package main provides the entry point for the Flyer Studio application.
package main

import (
	"flyer-studio/cmd"
)

func main() {
	cmd.Execute()
}
