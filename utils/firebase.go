// utils/firebase.go
package utils

import (
	"bayassist/config"
	"context"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var FCMClient *messaging.Client

// FirebaseInit initializes the Firebase App and Messaging client.
// Staff push notifications are best-effort; without credentials the client stays nil.
func FirebaseInit() {
	credFile := config.AppConfig.FirebaseCredentialsFile
	if credFile == "" {
		log.Println("firebase: no credentials file configured, staff push disabled")
		return
	}

	ctx := context.Background()
	opt := option.WithCredentialsFile(credFile)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		log.Fatalf("firebase: error initializing app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Messaging client: %v", err)
	}

	FCMClient = client
}
