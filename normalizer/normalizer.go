package normalizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"order-relay/models"
)

// OrderFetcher retrieves a full order record from the commerce API when a
// webhook payload only references the order by id. The record comes back in
// the inline commerce-order shape.
type OrderFetcher interface {
	FetchOrder(ctx context.Context, orderID string) (map[string]any, error)
}

// Normalizer turns an arbitrary inbound payload into a canonical
// OrderSummary, or fails with a classified validation error.
type Normalizer struct {
	fetcher OrderFetcher
	logger  *zap.Logger
}

// New builds a Normalizer. fetcher may be nil when no commerce API is
// configured; reference-only payloads then fail at fetch time.
func New(fetcher OrderFetcher, logger *zap.Logger) *Normalizer {
	return &Normalizer{fetcher: fetcher, logger: logger}
}

// Normalize classifies the payload into one of the recognized shapes and
// extracts the canonical order fields. Missing customer email is always
// fatal, regardless of which shape matched.
func (n *Normalizer) Normalize(ctx context.Context, raw map[string]any) (*models.OrderSummary, error) {
	inbound, err := Classify(raw)
	if err != nil {
		return nil, err
	}

	switch inbound.Kind {
	case models.KindCommerce:
		return n.fromCommerce(inbound.Commerce)
	case models.KindAdHoc:
		return n.fromAdHoc(inbound.AdHoc)
	case models.KindReference:
		return n.fromReference(ctx, inbound.Reference)
	default:
		return nil, models.NewValidationError(models.ValidationUnrecognizedShape, "invalid order format", nil)
	}
}

func (n *Normalizer) fromCommerce(order *models.CommerceOrder) (*models.OrderSummary, error) {
	email := strings.TrimSpace(order.Billing.Email)
	if email == "" {
		return nil, models.NewValidationError(models.ValidationMissingEmail, "customer email is required", nil)
	}

	names := make([]string, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		names = append(names, item.Name)
	}
	products := strings.Join(names, ", ")
	if products == "" {
		products = models.NoProducts
	}

	orderID := firstNonEmpty(coerceString(order.ID), coerceString(order.Number))
	if orderID == "" {
		orderID = syntheticOrderID()
	}

	return &models.OrderSummary{
		OrderID:            orderID,
		CustomerEmail:      email,
		ProductDescription: products,
		Status:             firstNonEmpty(order.Status, models.UnknownValue),
		TotalAmount:        firstNonEmpty(coerceString(order.Total), models.UnknownValue),
		PaymentMethod:      firstNonEmpty(order.PaymentMethodTitle, order.PaymentMethod, models.UnknownValue),
		MinecraftUsername: resolveUsername(usernameSources{
			billing:      order.Billing,
			topLevel:     order.MinecraftUsername,
			metaData:     order.MetaData,
			customFields: order.CustomFields,
		}),
	}, nil
}

func (n *Normalizer) fromAdHoc(order *models.AdHocOrder) (*models.OrderSummary, error) {
	email := firstNonEmpty(strings.TrimSpace(order.CustomerEmail), strings.TrimSpace(order.Email))
	if email == "" {
		return nil, models.NewValidationError(models.ValidationMissingEmail, "customer email is required", nil)
	}

	products := firstNonEmpty(coerceString(order.Products), coerceString(order.Items), models.NoProducts)

	orderID := firstNonEmpty(coerceString(order.OrderID), coerceString(order.ID))
	if orderID == "" {
		orderID = syntheticOrderID()
	}

	return &models.OrderSummary{
		OrderID:            orderID,
		CustomerEmail:      email,
		ProductDescription: products,
		Status:             firstNonEmpty(order.Status, "pending"),
		TotalAmount:        firstNonEmpty(coerceString(order.Total), coerceString(order.Amount), models.UnknownValue),
		PaymentMethod:      firstNonEmpty(order.PaymentMethod, models.UnknownValue),
		MinecraftUsername: resolveUsername(usernameSources{
			topLevel:     order.MinecraftUsername,
			metaData:     order.MetaData,
			customFields: order.CustomFields,
		}),
	}, nil
}

func (n *Normalizer) fromReference(ctx context.Context, ref *models.OrderReference) (*models.OrderSummary, error) {
	orderID := coerceString(ref.ID)
	if n.fetcher == nil {
		return nil, fmt.Errorf("order %s referenced by id but no commerce API is configured", orderID)
	}

	record, err := n.fetcher.FetchOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order %s: %w", orderID, err)
	}

	order, err := decodeCommerce(record)
	if err != nil {
		return nil, fmt.Errorf("decode fetched order %s: %w", orderID, err)
	}

	n.logger.Info("resolved order reference via commerce API", zap.String("order_id", orderID))
	return n.fromCommerce(order)
}

// syntheticOrderID marks orders that arrived without any identifier. Kept
// short so it fits inside a button custom id alongside the email.
func syntheticOrderID() string {
	return "order-" + uuid.NewString()[:8]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
