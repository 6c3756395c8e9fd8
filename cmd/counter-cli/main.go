// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "counter-cli" drives the counter program from a terminal or a browser.
package main

import (
	"os"

	"github.com/ava-labs/counterdapp/cmd/counter-cli/cmd"
	"github.com/ava-labs/counterdapp/utils"
)

func main() {
	if err := cmd.Execute(); err != nil {
		utils.Outf("{{red}}counter-cli exited with error:{{/}} %+v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
