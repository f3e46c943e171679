package main

import (
	"os"

	"github.com/brendan-ward/geotiler/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
