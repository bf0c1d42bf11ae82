package normalizer

import (
	"strings"

	"order-relay/models"
)

// Aliases accepted for the username inside a custom-fields map, in priority
// order.
var customFieldAliases = []string{"minecraft_username", "mc_username", "username"}

type usernameSources struct {
	billing      models.Billing
	topLevel     string
	metaData     []models.MetaEntry
	customFields map[string]any
}

// resolveUsername walks the fixed fallback chain for the optional Minecraft
// username. It never fails; when every source is absent it degrades to the
// "Unknown" sentinel.
func resolveUsername(src usernameSources) string {
	if name := strings.TrimSpace(src.billing.MinecraftUsername); name != "" {
		return name
	}
	if name := strings.TrimSpace(src.topLevel); name != "" {
		return name
	}
	for _, meta := range src.metaData {
		if !strings.Contains(strings.ToLower(meta.Key), "minecraft") {
			continue
		}
		if name := coerceString(meta.Value); name != "" {
			return name
		}
	}
	for _, alias := range customFieldAliases {
		if name := coerceString(src.customFields[alias]); name != "" {
			return name
		}
	}
	if name := strings.TrimSpace(src.billing.FirstName); name != "" {
		return name
	}
	return models.UnknownUsername
}
