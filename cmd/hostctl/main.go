package main

import (
	"os"

	"github.com/spf13/afero"

	"hostlookup/internal/cli"
)

func main() {
	cli.New(os.Stdout, os.Stderr, afero.NewOsFs()).Run()
}
