package main

import (
	"os"

	"github.com/Azhovan/formguard/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	os.Exit(cli.ExitCode(err, os.Stderr))
}
