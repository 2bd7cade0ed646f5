package services

import (
	"context"
	"errors"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
	"writeflow.com/emotion-board/logger"
)

var (
	messagingClient *messaging.Client
	firebaseOnce    sync.Once
	firebaseInitErr error
)

// InitFirebase initializes the FCM messaging client from a credentials
// file. Safe to call more than once; only the first call does work.
func InitFirebase(credentialsPath string) error {
	firebaseOnce.Do(func() {
		ctx := context.Background()

		opt := option.WithCredentialsFile(credentialsPath)
		app, err := firebase.NewApp(ctx, nil, opt)
		if err != nil {
			firebaseInitErr = err
			logger.Log.WithError(err).Error("failed to init Firebase app")
			return
		}

		messagingClient, err = app.Messaging(ctx)
		if err != nil {
			firebaseInitErr = err
			logger.Log.WithError(err).Error("failed to get Firebase messaging client")
			return
		}

		logger.Log.Info("Firebase messaging client initialized")
	})

	return firebaseInitErr
}

func getMessagingClient() (*messaging.Client, error) {
	if messagingClient == nil {
		if firebaseInitErr != nil {
			return nil, firebaseInitErr
		}
		return nil, errors.New("firebase messaging client not initialized")
	}
	return messagingClient, nil
}

// SendMulticast pushes one notification to a set of device tokens and
// returns the per-token responses so callers can clean up dead tokens.
func SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (*messaging.BatchResponse, error) {
	client, err := getMessagingClient()
	if err != nil {
		return nil, err
	}

	message := &messaging.MulticastMessage{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:   data,
		Tokens: tokens,
	}

	response, err := client.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("success", response.SuccessCount).
		WithField("failure", response.FailureCount).
		Debug("FCM multicast sent")
	return response, nil
}

// IsDeadToken reports whether a per-token send error means the device
// token is no longer registered and should be dropped.
func IsDeadToken(err error) bool {
	return messaging.IsUnregistered(err)
}
