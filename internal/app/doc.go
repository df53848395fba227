// Package app wires application dependencies for the CLI.
//
// It loads Config from $HOME/.yacen/config.yaml, builds a logger, and
// constructs the profile store, identity service and directory client,
// exposing them via App for commands to use.
package app
