package main

import (
	"fmt"
	"os"

	"yacen/cmd/yacen/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
