package cache

import "time"

// Cache key builders, kept in one place so the naming scheme does not drift:
// "<plural>:all" for unfiltered collections, "<singular>:<id>" for single
// entities, "<resource>:<relation>:<id>" for relationship-scoped reads.
// Filtered search queries are never cached.
func KeyAllProperties() string { return "properties:all" }
func KeyProperty(id string) string { return "property:" + id }
func KeyAllUsers() string { return "users:all" }
func KeyUser(id string) string { return "users:" + id }
func KeyReceivedRecs(userID string) string { return "recommendations:receiver:" + userID }

// TTLs per key family, matching the bounded 60-300s window the API serves
// list reads within.
const (
	PropertyListTTL = 300 * time.Second
	PropertyTTL     = 60 * time.Second
	UserListTTL     = 60 * time.Second
	UserTTL         = 60 * time.Second
	ReceivedRecsTTL = 60 * time.Second
)
