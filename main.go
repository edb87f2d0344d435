// main is the entry point for the archivepulse CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/archivepulse/cmd"
	"github.com/huangsam/archivepulse/internal/iocache"
)

func main() {
	os.Exit(run())
}

func run() int {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseStores()
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			fmt.Fprintln(os.Stderr, "❌", err)
		}
	}()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		return 1
	}
	return 0
}
