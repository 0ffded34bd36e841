package main

import (
	"os"

	"github.com/notdatboi/Spark/cmd/sparkmem/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
