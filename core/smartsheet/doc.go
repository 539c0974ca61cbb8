// Package smartsheet is the remote table adapter for Smartsheet sheets.
//
// Client implements reconcile.Table on top of the Smartsheet REST API 2.0:
//
//   - GetSnapshot: GET /sheets/{id}, columns and every row. 404 maps to reconcile.ErrTableNotFound.
//   - UpdateRows:  PUT /sheets/{id}/rows with row ids.
//   - AddRows:     POST /sheets/{id}/rows with toBottom, returning the created row ids.
//
// Requests are authenticated with a bearer token and paced by a token bucket limiter
// (the API allows 300 requests per minute per token).
package smartsheet
