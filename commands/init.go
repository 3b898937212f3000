package commands

import (
	"context"

	log "github.com/sirupsen/logrus"

	"peerscope/config"
)

// RunInit writes a default config file for the operator to edit.
func RunInit(ctx context.Context, cfg *config.Config) {
	if err := cfg.Save(); err != nil {
		log.Fatalf("Failed to write config: %v", err)
	}
	log.Infof("Wrote default config to %s", cfg.Path())
}
