package main

import (
	"fmt"
	"os"

	"github.com/00DarkGhost00/Tracking-absence/pkg/config"
)

func main() {
	if err := newRootCmd(config.Load).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
