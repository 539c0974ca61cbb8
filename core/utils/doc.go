// Package utils provides common utility functions for sheet-sync.
// It includes helpers for converting loosely typed driver values into the
// primitive kinds the remote table accepts.
package utils
