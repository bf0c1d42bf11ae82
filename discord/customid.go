package discord

import (
	"fmt"
	"net/url"
	"strings"

	"order-relay/models"
)

// Decision identity rides inside the button's custom id so resolution needs
// no lookup. Components are percent-encoded before joining: emails and order
// ids may contain any delimiter we could pick, so a naive split would
// truncate them.
const customIDSeparator = ":"

func encodeCustomID(action models.DecisionAction, orderID, email string) string {
	return strings.Join([]string{
		string(action),
		url.QueryEscape(orderID),
		url.QueryEscape(email),
	}, customIDSeparator)
}

func decodeCustomID(customID string) (models.Decision, error) {
	parts := strings.SplitN(customID, customIDSeparator, 3)
	if len(parts) != 3 {
		return models.Decision{}, fmt.Errorf("malformed custom id %q", customID)
	}

	action := models.DecisionAction(parts[0])
	if !action.Valid() {
		return models.Decision{}, fmt.Errorf("unknown action %q in custom id", parts[0])
	}

	orderID, err := url.QueryUnescape(parts[1])
	if err != nil {
		return models.Decision{}, fmt.Errorf("decode order id: %w", err)
	}
	email, err := url.QueryUnescape(parts[2])
	if err != nil {
		return models.Decision{}, fmt.Errorf("decode email: %w", err)
	}
	if email == "" {
		return models.Decision{}, fmt.Errorf("custom id %q carries no email", customID)
	}

	return models.Decision{
		Action:        action,
		OrderID:       orderID,
		CustomerEmail: email,
	}, nil
}
