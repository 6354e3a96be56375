package main

import (
	"os"

	"github.com/ariel-frischer/autobump/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
