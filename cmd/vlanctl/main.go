package main

import (
	"os"

	"github.com/plexsphere/vlanctl/cmd/vlanctl/cmd"
)

// Overridden with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	if cmd.Execute() != nil {
		os.Exit(1)
	}
}
