package main

import (
	"fmt"
	"os"

	"github.com/fairworkhq/compliance_backend/config"
	"github.com/fairworkhq/compliance_backend/models"
)

// migrate runs AutoMigrate as a standalone job so the API can start with
// SKIP_MIGRATIONS=true and DDL never blocks request-serving instances.
func main() {
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}
	models.MigrateTable()
	fmt.Println("migrations completed")
}
