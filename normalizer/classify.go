package normalizer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"order-relay/models"
)

// Classify inspects which fields a payload carries and produces the tagged
// input variant for it. Shape precedence: inline commerce order first, then
// the loose top-level shape, then a bare order reference. A payload matching
// none of them is an unrecognized-shape validation error.
func Classify(raw map[string]any) (*models.InboundOrder, error) {
	if len(raw) == 0 {
		return nil, models.NewValidationError(models.ValidationUnrecognizedShape, "no order data received", nil)
	}

	if hasValue(raw, "billing") && hasValue(raw, "line_items") {
		order, err := decodeCommerce(raw)
		if err != nil {
			return nil, models.NewValidationError(models.ValidationUnrecognizedShape, "invalid order format", err)
		}
		return &models.InboundOrder{Kind: models.KindCommerce, Commerce: order}, nil
	}

	if hasValue(raw, "customer_email") || hasValue(raw, "email") {
		var order models.AdHocOrder
		if err := decode(raw, &order); err != nil {
			return nil, models.NewValidationError(models.ValidationUnrecognizedShape, "invalid order format", err)
		}
		return &models.InboundOrder{Kind: models.KindAdHoc, AdHoc: &order}, nil
	}

	if hasValue(raw, "id") || hasValue(raw, "order_id") {
		id := raw["id"]
		if id == nil {
			id = raw["order_id"]
		}
		return &models.InboundOrder{Kind: models.KindReference, Reference: &models.OrderReference{ID: id}}, nil
	}

	return nil, models.NewValidationError(models.ValidationUnrecognizedShape, "invalid order format", nil)
}

func decodeCommerce(raw map[string]any) (*models.CommerceOrder, error) {
	var order models.CommerceOrder
	if err := decode(raw, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// decode maps a loose JSON/form payload onto a typed variant. Weak typing is
// deliberate: upstream sends totals and ids as either strings or numbers.
func decode(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func hasValue(raw map[string]any, key string) bool {
	v, ok := raw[key]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// coerceString renders a scalar of unknown JSON type for display. Numbers
// keep their shortest decimal form; lists are comma-joined.
func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := coerceString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}
