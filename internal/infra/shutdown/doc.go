// Package shutdown provides graceful shutdown handling.
//
// portal-server registers its HTTP server, config watcher and KV engine
// as hooks; on SIGINT/SIGTERM they run newest first under a shared
// deadline.
package shutdown
