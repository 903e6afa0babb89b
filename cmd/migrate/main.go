package main

import (
	"log"

	"github.com/AziCodder/api-coddy-crm/app/config"
	"github.com/AziCodder/api-coddy-crm/app/database"
)

// Applies pending migrations and exits. The server does the same on boot;
// this exists for deploy pipelines that migrate before rolling instances.
func main() {
	if _, err := config.Load(); err != nil {
		log.Fatal(err)
	}
	if err := config.InitDB(); err != nil {
		log.Fatal(err)
	}
	db := config.GetDB()
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("migrations failed: ", err)
	}
	version, err := database.MigrationVersion(db)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("schema at version %d", version)
}
