package main

import (
	"os"

	"xrpbootstrap/internal/cli"
	"xrpbootstrap/internal/notify"
)

// xrp-bootstrap provisions the XRP analytics topology on Railway.
//
// Exit status is 0 whenever the run got past the project link, even when
// individual services or plugins failed; those are listed in the summary
// and fixed by running the tool again.
func main() {
	if err := cli.Execute(); err != nil {
		notify.Errorf(os.Stderr, "%v", err)
		os.Exit(cli.ExitCode(err))
	}
}
