// Package repositories implements durable watchlist slot backends.
//
// Both types satisfy watchlist.Backend: a slot is a named text value that is read whole and overwritten whole.
//
// Key Implementations:
//   - [SlotRepository] : SQLite slots table with an append-only write history
//   - [RedisSlots] : one Redis string key per slot under a configurable prefix
//
// The SQLite schema lives in the embedded migrations of the shared package and must be applied with
// shared.RunMigrations before a [SlotRepository] is used.
package repositories
