// Package testutil holds helpers shared by the package tests: temporary
// workspaces laid out from a map of file contents and log capture.
package testutil
