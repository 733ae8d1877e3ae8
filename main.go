// labelschema edits labelling schemas and syncs them to an annotation server.
package main

import (
	"os"

	"github.com/thenoetrevino/labelschema/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
