// Package watchlist keeps the user's saved movies and persists them as one JSON text slot.
//
// A [Store] owns an ordered, id-unique list of [models.Movie] records. Every mutation serializes the whole list and
// writes it to a [Backend] before the new list becomes visible, so a failed write never changes what callers see.
//
// Backends:
//   - [MemoryBackend] : process-local map, used by tests and the "memory" backend setting
//   - [FileBackend] : one <slot>.json file per slot under a directory
//   - repositories.SlotRepository : SQLite slots table
//   - repositories.RedisSlots : one Redis string key per slot
//
// [Watch] notifies a caller when a [FileBackend] slot is replaced by another process.
package watchlist
