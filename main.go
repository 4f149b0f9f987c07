package main

import (
	"os"

	"github.com/mindfile/mindfile/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
