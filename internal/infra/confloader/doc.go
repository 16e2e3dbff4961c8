// Package confloader loads layered configuration and watches it for changes.
//
// Sources are merged with koanf, later ones overriding earlier ones:
//
//  1. Values already present in the target struct (defaults)
//  2. A YAML configuration file
//  3. Environment variables
//  4. Explicit maps, e.g. parsed command-line flags
//
// Environment variables carry a prefix (PORTAL_ by default) and separate
// nesting levels with a double underscore, so a single underscore may
// appear inside a key: PORTAL_STORAGE__DATA_DIR sets storage.data_dir.
//
// Watcher reports writes to watched files via fsnotify. It watches the
// parent directory so editors that save by rename are still observed.
package confloader
