package main

import (
	"os"

	"github.com/phambaophuc/photomark/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	os.Exit(cli.Execute())
}
