// Command oslc is the OSL shading-language cross-compiler CLI (spec.md §6.1).
package main

import (
	"os"

	"github.com/osllang/osl/cmd/oslc/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
