package main

import (
	"os"

	"github.com/cristianoliveira/intray-live/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
