// Package status exposes run state over HTTP.
//
// # HTTP Endpoints
//
//   - GET /health : Liveness probe, always public.
//   - GET /runs/latest : Report of the last finished run, 404 before the first one.
//   - POST /runs : Starts a run in the background, 409 while one is in progress.
package status
