package models

import (
	"log"

	"github.com/fairworkhq/compliance_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Employee{},
		&Roster{}, &ShiftRecord{},
		&PayRecord{},
		&ValidationRun{}, &Issue{},
		&ValidationEventRecord{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
