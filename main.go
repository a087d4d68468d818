// Package main is the entry point for the jellysan application.
package main

import (
	"github.com/jellysan-cli/jellysan/cmd"
	"github.com/jellysan-cli/jellysan/config"
	"github.com/jellysan-cli/jellysan/internal/cache"
	"github.com/jellysan-cli/jellysan/internal/sync"
	"github.com/jellysan-cli/jellysan/jellyfin"
	"github.com/jellysan-cli/jellysan/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Initialize asynchronous background processes for cache maintenance and synchronization.
	go cache.CollectGarbage()
	if client, err := jellyfin.New(); err == nil {
		sync.ReconcileFailures(client.Replay)
	}

	cmd.Execute()
}
