package main

import (
	"os"

	"github.com/Krish948/IronWall/cmd/ironwall/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(2)
	}
}
