package bootstrap

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
)

func InitFirebase(ctx context.Context) (*auth.Client, *messaging.Client, error) {
	app, err := firebase.NewApp(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, nil, err
	}
	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, nil, err
	}
	return authClient, messagingClient, nil
}
