package main

import (
	"os"

	geistcmder "github.com/papercomputeco/geist/cmd/geist"
)

func main() {
	cmd := geistcmder.NewGeistCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
