// Package notifications sends run lifecycle push notifications through
// ntfy. When no topic is configured every notification is a no-op.
package notifications
