// Package app contains the application logic behind the fsctx command. It
// bootstraps a file-system context from the configured locations, prints the
// merged definitions, and optionally keeps serving health and metrics
// endpoints while rebuilding the context whenever a loaded file changes.
package app
