// Command poseidoncrh hashes inputs with the Poseidon CRH over the BN254
// scalar field, dumps parameter sets and reports circuit sizes.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
