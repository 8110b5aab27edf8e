// Command bottle validates bottle dimensions and builds the bottle on a
// geometry kernel: the built-in SDF kernel writes an STL mesh, KOMPAS-3D
// builds the part in a live document.
package main

import (
	"os"
)

var version = "0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
