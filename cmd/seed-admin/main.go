// seed-admin creates or updates an operator user and prints a bearer token for it.
// Requests sent with the token record the user as creator of new expenses.
//
// Usage:
//
//	DB_DRIVER=... DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	  go run ./cmd/seed-admin -email admin@example.com -password 'secret123'
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mmdatafocus/backoffice_backend/config"
	"github.com/mmdatafocus/backoffice_backend/models"
	"github.com/mmdatafocus/backoffice_backend/utils"
)

const (
	defaultAdminEmail = "admin@backoffice.local"
	defaultAdminName  = "Backoffice Admin"
)

func main() {
	email := flag.String("email", defaultAdminEmail, "operator email")
	name := flag.String("name", defaultAdminName, "operator display name")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "operator password (min 8 chars, default $ADMIN_PASSWORD)")
	migrate := flag.Bool("migrate", false, "run AutoMigrate before seeding")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	defer config.CloseDB()

	if *migrate {
		if err := models.MigrateTable(); err != nil {
			fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
			os.Exit(1)
		}
	}

	user, err := models.UpsertUser(ctx, &models.NewUser{
		Name:     *name,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		var verr *utils.ValidationError
		if errors.As(err, &verr) {
			for field, msgs := range verr.Fields {
				fmt.Fprintf(os.Stderr, "%s: %v\n", field, msgs)
			}
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "failed to save user: %v\n", err)
		os.Exit(1)
	}

	token, err := utils.JwtGenerate(user.ID, user.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Seeded user id=%d email=%q\n", user.ID, user.Email)
	fmt.Printf("Authorization: Bearer %s\n", token)
}
