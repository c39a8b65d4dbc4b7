package config

import (
	"context"
	"encoding/base64"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// InitFirebase initializes the Firebase Admin SDK for Cloud Storage uploads. It
// returns nil when no bucket is configured.
func InitFirebase(cfg *Config) *firebase.App {
	if cfg.StorageBucket == "" {
		log.Println("FIREBASE_STORAGE_BUCKET not set, signatures are stored on local disk")
		return nil
	}

	ctx := context.Background()
	fbConfig := &firebase.Config{
		ProjectID:     os.Getenv("FIREBASE_PROJECT_ID"),
		StorageBucket: cfg.StorageBucket,
	}

	var opts []option.ClientOption
	if base64Creds := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); base64Creds != "" {
		log.Printf("Using Firebase credentials from base64 environment variable")
		decoded, err := base64.StdEncoding.DecodeString(base64Creds)
		if err != nil {
			log.Fatalf("Error decoding base64 credentials: %v", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		log.Printf("Using Firebase credentials file: %s", credFile)
		opts = append(opts, option.WithCredentialsFile(credFile))
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		log.Fatalf("error initializing firebase app: %v\n", err)
	}
	return app
}
