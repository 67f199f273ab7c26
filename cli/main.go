package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/pgvault/pgvault/cli/cmd"
)

func main() {
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	if os.Getenv("PG_VAULT_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	cmd.Execute()
}
