// Package storage persists the portal session.
//
// The session is a single JSON-encoded identity kept under one well-known
// key of an embedded key-value engine:
//
//   - KVEngine: the minimal key-value contract (Get, Set, Delete, Close)
//   - BadgerEngine: durable engine backed by dgraph-io/badger
//   - SessionStore: load/save/clear of the session record on top of a KVEngine
//
// An in-memory KVEngine for tests and ephemeral deployments lives in the
// memory subpackage together with the user directory.
package storage
