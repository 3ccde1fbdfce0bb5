package main

import (
	"os"

	"tarediiran-industries.com/train-dispatch/internal/cmd"
)

func main() {
	// cobra has already printed the error
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
