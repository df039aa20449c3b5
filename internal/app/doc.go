// Package app wires configuration, storage and HTTP handlers into a
// runnable blog server, and owns its lifecycle.
package app
