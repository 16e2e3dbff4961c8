// Package memory provides in-process storage for the portal.
//
//   - KV: a storage.KVEngine over a sharded concurrent map, used when
//     storage.engine is "memory" and throughout the tests
//   - Directory: the user directory, seeded with the demo identities
//
// Nothing here survives a restart.
package memory
