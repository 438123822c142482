// Public domain.

package main

import "github.com/soniakeys/rvcorr/internal/rvprog"

func main() {
	rvprog.Main()
}
