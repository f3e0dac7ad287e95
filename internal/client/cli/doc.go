// Package cli implements the interactive terminal client for Country Explorer.
//
// The REPL reads one command per line and dispatches to App, which drives the
// application state object and resolves country codes through REST Countries.
package cli
