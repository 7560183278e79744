// Package cmd implements the command-line interface for the uKV unified
// key-value storage. It provides a hierarchical command structure with
// operations for interacting with a storage instance and for running the
// HTTP server.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key-value operations (get, set, del, keys, watch, etc.)
//   - serve: Commands for starting and configuring the uKV HTTP server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See ukv -help for a list of all commands.
package cmd
