package notify

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"

	"github.com/GregMSThompson/cardledger-backend/internal/errs"
	"github.com/GregMSThompson/cardledger-backend/internal/models"
)

// fcmNotifier pushes bill events to the user's device topic over Firebase
// Cloud Messaging. Delivery is best-effort; callers log failures and move on.
type fcmNotifier struct {
	client *messaging.Client
}

func NewFCM(client *messaging.Client) *fcmNotifier {
	return &fcmNotifier{client: client}
}

func (n *fcmNotifier) BillPaid(ctx context.Context, uid string, p models.BillPayment) error {
	_, err := n.client.Send(ctx, &messaging.Message{
		Topic: "user-" + uid,
		Notification: &messaging.Notification{
			Title: "Bill paid",
			Body:  fmt.Sprintf("Your %s bill of %s was paid.", p.BillKey, p.Amount.StringFixed(2)),
		},
		Data: map[string]string{
			"creditCardId": p.CreditCardID,
			"billKey":      p.BillKey,
		},
	})
	if err != nil {
		return errs.NewExternalServiceError("fcm", err.Error(), true)
	}
	return nil
}
