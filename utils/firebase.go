package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	firebaseApp *firebase.App
	fcmClient   *messaging.Client
	fbOnce      sync.Once
	fbInitErr   error
)

// InitFirebase initializes the Firebase Admin SDK and FCM client once.
// Missing credentials are not fatal; push simply stays disabled.
func InitFirebase() error {
	fbOnce.Do(func() {
		ctx := context.Background()

		credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if credentialsPath == "" {
			credentialsPath = os.Getenv("FCM_CREDENTIALS_PATH")
		}
		if credentialsPath == "" {
			credentialsPath = "./serviceAccountKey.json"
		}

		projectID := os.Getenv("FCM_PROJECT_ID")

		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			fbInitErr = fmt.Errorf("firebase credentials file not found: %s", credentialsPath)
			return
		}
		if projectID == "" {
			fbInitErr = fmt.Errorf("FCM_PROJECT_ID is required for push notifications")
			return
		}

		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID},
			option.WithCredentialsFile(credentialsPath))
		if err != nil {
			fbInitErr = fmt.Errorf("firebase app initialization failed: %w", err)
			return
		}
		firebaseApp = app

		client, err := app.Messaging(ctx)
		if err != nil {
			fbInitErr = fmt.Errorf("FCM client initialization failed: %w", err)
			return
		}

		fcmClient = client
		log.Printf("✅ Firebase initialized for project %s", projectID)
	})

	return fbInitErr
}

// GetFCMClient returns the messaging client, nil when push is disabled
func GetFCMClient() *messaging.Client {
	return fcmClient
}

// IsFCMEnabled reports whether push delivery is available
func IsFCMEnabled() bool {
	return fcmClient != nil
}

// GetInitError returns the initialization error if any
func GetInitError() error {
	return fbInitErr
}
