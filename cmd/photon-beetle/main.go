// Command photon-beetle hashes, encrypts, and decrypts with Photon-Beetle, and generates and checks NIST
// Known-Answer-Test files.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := CLI().Run(os.Args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "photon-beetle: %s\n", err)
		os.Exit(1)
	}
}
