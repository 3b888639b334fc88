package main

import (
	"os"

	"decompbench/cmd/decompbench/commands"
)

func main() {
	root := commands.NewRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
