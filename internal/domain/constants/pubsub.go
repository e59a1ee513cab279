// Package constants holds shared domain-level constant values.
package constants

// Pub/Sub provider types selectable in configuration.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)
