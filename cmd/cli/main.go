// ascflat - eye-tracker recording flattener
//
// ascflat reads the ASC text export of an eye-tracker recording and writes
// samples and events as one table sorted by trial and timestamp.
package main

import (
	"os"

	"github.com/ccollicutt/ascflat/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
