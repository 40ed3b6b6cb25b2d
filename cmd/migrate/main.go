package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mmdatafocus/backoffice_backend/config"
	"github.com/mmdatafocus/backoffice_backend/models"
	"github.com/sirupsen/logrus"
)

// migrate runs AutoMigrate outside server start-up (pair it with SKIP_MIGRATIONS=true on the API).
//
// With -dry-run it only prints the tables that do not exist yet.
func main() {
	dryRun := flag.Bool("dry-run", false, "If true, do not write; only print missing tables")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	defer config.CloseDB()
	logger := config.GetLogger()

	pending, err := models.PendingTables()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to inspect schema: %v\n", err)
		os.Exit(1)
	}
	for _, table := range pending {
		fmt.Printf("missing table: %s\n", table)
	}
	if *dryRun {
		fmt.Println("[dry-run] no changes written")
		return
	}

	if err := models.MigrateTable(); err != nil {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Error(err.Error())
		os.Exit(1)
	}
	logger.WithFields(logrus.Fields{
		"field":   "migrations",
		"created": len(pending),
		"driver":  config.DatabaseDriver(),
	}).Info("schema up to date")
}
