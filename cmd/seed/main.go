package main

import (
	"log"
	"os"

	"github.com/AziCodder/api-coddy-crm/app/config"
	"github.com/AziCodder/api-coddy-crm/app/database"
	"github.com/AziCodder/api-coddy-crm/app/models"
	"github.com/AziCodder/api-coddy-crm/app/routes/auth"
)

// Bootstraps the role set and an initial admin account. Running it against a
// seeded database is a no-op.
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
	if err := database.EnsureRoles(db, models.AllRoles); err != nil {
		log.Fatal("seeding roles failed: ", err)
	}
	log.Println("roles seeded")

	username := getenv("ADMIN_USERNAME", "admin")
	email := getenv("ADMIN_EMAIL", "admin@example.com")
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD is required")
	}

	if _, err := database.GetUserByUsername(db, username); err == nil {
		log.Printf("admin user %q already exists, nothing to do", username)
		return
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal(err)
	}
	admin := &models.User{
		Email:     email,
		Username:  username,
		Password:  hashed,
		FirstName: "Admin",
		LastName:  "User",
		IsActive:  true,
	}
	if err := database.CreateUserWithRoles(db, admin, []string{models.RoleAdmin}); err != nil {
		log.Fatal("seeding admin failed: ", err)
	}
	log.Printf("admin user %q created (id %d)", username, admin.ID)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
