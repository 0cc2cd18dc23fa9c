package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"elderease/internal/config"
	"elderease/pkg/log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// NewFirestore creates a Firestore client from the service account JSON held in cfg.
// The project id falls back to the one inside the credential. When FIRESTORE_EMULATOR_HOST
// is set the client library talks to the emulator and no credential is sent.
func NewFirestore(ctx context.Context, cfg config.FirestoreConfig) (*firestore.Client, error) {
	projectID := cfg.ProjectID
	if projectID == "" {
		id, err := credentialProjectID(cfg.ServiceAccountJSON)
		if err != nil {
			return nil, err
		}
		projectID = id
	}

	var opts []option.ClientOption
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	log.Infof("Firestore client created for project %s", projectID)
	return client, nil
}

// credentialProjectID reads project_id out of a service account key.
func credentialProjectID(serviceAccountJSON string) (string, error) {
	var key struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal([]byte(serviceAccountJSON), &key); err != nil {
		return "", fmt.Errorf("invalid FIREBASE_SERVICE_ACCOUNT_JSON: %w", err)
	}
	if key.ProjectID == "" {
		return firestore.DetectProjectID, nil
	}
	return key.ProjectID, nil
}
