// Command relgen reads the schema of a source and writes Go tuple types for
// its tables, for use with rel.FromSource.
//
//	relgen <sourceKind> <rootName> <connectionLocator> [flags]
package main

import (
	"os"
)

func main() {
	os.Exit(execute(newRootCmd(), os.Args[1:]))
}
