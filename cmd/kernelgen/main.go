// Command kernelgen prints convolution kernels from the command line.
//
// Usage:
//
//	kernelgen gaussian --size 5 --std 1.5 --normalize sum
//	kernelgen sobel --mode vert --json
//	kernelgen preset sharpen-hp
//	kernelgen list
package main

import (
	"os"

	"github.com/anime-shed/kernel-forge/internal/logger"
)

func main() {
	logger.SetOutput(os.Stderr)
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
