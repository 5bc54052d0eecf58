// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/retraction-index/internal/artifact"
)

// artifactTarget resolves the data directory and date stamp every stage
// keys its artifacts on.
func artifactTarget(cmd *cobra.Command) (dataDir, date string) {
	dataDir, _ = cmd.Flags().GetString("data-dir")
	date, _ = cmd.Flags().GetString("date")
	if date == "" {
		date = artifact.Date(time.Now())
	}
	return dataDir, date
}
