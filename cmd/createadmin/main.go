// Command createadmin creates the first back-office account. Run it once
// against a provisioned database:
//
//	createadmin -username boss -password s3cret [-role admin]
package main

import (
	"flag"
	"log"

	"groupbuy-service/auth"
	"groupbuy-service/config"
	"groupbuy-service/database"
	"groupbuy-service/models"
)

func main() {
	var (
		username = flag.String("username", "", "login name for the new account")
		password = flag.String("password", "", "plaintext password, hashed before storage")
		role     = flag.String("role", models.RoleAdmin, "account role: admin or operator")
	)
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("both -username and -password are required")
	}
	if *role != models.RoleAdmin && *role != models.RoleOperator {
		log.Fatalf("invalid role %q", *role)
	}

	cfg := config.LoadConfig()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect to MySQL: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	result, err := db.Exec(
		`INSERT IGNORE INTO users (username, password_hash, role, status)
		 VALUES (?, ?, ?, ?)`,
		*username, hash, *role, models.UserStatusActive,
	)
	if err != nil {
		log.Fatalf("failed to create user: %v", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		log.Printf("user %s already exists, nothing changed", *username)
		return
	}
	log.Printf("created %s account %s", *role, *username)
}
