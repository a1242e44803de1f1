package db

import (
	"context"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// MustClient creates and returns a Firestore client, or exits if the
// Firebase app cannot be initialised.
//
// Credentials are resolved in order of preference:
//  1. FIREBASE_SERVICE_ACCOUNT_JSON — the service account JSON itself
//  2. FIREBASE_CREDENTIALS_FILE — path to a service account file
//  3. application default credentials
func MustClient(ctx context.Context) *firestore.Client {
	var opts []option.ClientOption
	switch {
	case os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON") != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"))))
	case os.Getenv("FIREBASE_CREDENTIALS_FILE") != "":
		opts = append(opts, option.WithCredentialsFile(os.Getenv("FIREBASE_CREDENTIALS_FILE")))
	}

	var config *firebase.Config
	if project := os.Getenv("GOOGLE_CLOUD_PROJECT"); project != "" {
		config = &firebase.Config{ProjectID: project}
	}

	app, err := firebase.NewApp(ctx, config, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to initialise Firebase app")
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to create Firestore client")
	}

	log.Info().Msg("connected to Firestore")
	return client
}
