// Package server holds the status HTTP server configuration.
//
// The serve command starts a Fiber application on Address() and protects it with
// the configured API key (see core/middleware).
package server
