// Command create-admin creates the first Admin account, or promotes an existing
// account to Admin.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inetsl/fieldvisit_backend/config"
	"github.com/inetsl/fieldvisit_backend/models"
	"github.com/inetsl/fieldvisit_backend/repositories"
	"github.com/inetsl/fieldvisit_backend/services"
	"github.com/inetsl/fieldvisit_backend/utils"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	fs := ff.NewFlagSet("create-admin")
	var (
		name     = fs.StringLong("name", "Administrator", "Admin display name")
		email    = fs.StringLong("email", "", "Admin e-mail address")
		password = fs.StringLong("password", "", "Admin password (at least 6 characters)")
		mongoURI = fs.StringLong("mongo-uri", cfg.MongoURI, "MongoDB connection string")
		dbName   = fs.StringLong("db", cfg.DBName, "Database name")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("FIELDVISIT_ADMIN"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	req := models.RegisterRequest{Name: *name, Email: *email, Password: *password}
	if err := services.NewValidator().Struct(req); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %s\n", services.MessageOf(err))
		os.Exit(1)
	}
	if *mongoURI == "" {
		log.Fatal("MongoDB URI is required (--mongo-uri or MONGO_URI)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(*mongoURI))
	if err != nil {
		log.Fatalf("MongoDB connection error: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(*dbName)
	if err := config.EnsureIndexes(db); err != nil {
		log.Fatalf("MongoDB index setup error: %v", err)
	}

	if err := createAdmin(ctx, repositories.NewUserRepository(db), req); err != nil {
		log.Fatalf("create admin: %v", err)
	}
}

func createAdmin(ctx context.Context, users services.UserDirectory, req models.RegisterRequest) error {
	emailAddr, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return err
	}
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}
	admin := models.RoleAdmin

	existing, err := users.FindByEmail(ctx, emailAddr)
	switch {
	case err == nil:
		if _, err := users.Update(ctx, existing.ID, models.UserUpdate{Role: &admin, Password: &hashed}); err != nil {
			return err
		}
		log.Printf("Promoted %s to Admin", emailAddr)
		return nil
	case !errors.Is(err, models.ErrNotFound):
		return err
	}

	now := time.Now().UTC()
	user := &models.User{
		Name:      utils.SanitizeInput(req.Name),
		Email:     emailAddr,
		Password:  hashed,
		Role:      admin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}
	log.Printf("Created Admin %s (%s)", emailAddr, user.ID.Hex())
	return nil
}
