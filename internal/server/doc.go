// Package server implements the shelf occupancy HTTP service.
//
// The service is consumed by an inventory system that uploads shelf photos to
// a shared directory and asks this service which slots are stocked.
//
// # Endpoints
//
//   - GET /health: liveness, always {"status": "ok"}
//   - POST /process-shelf-image: classify one image
//
// # Request Paths
//
// Image paths arrive in the form the uploader serves them, e.g.
// "/uploads/1700000000.jpg". One leading "/" is stripped and the remainder is
// resolved against the configured working directory.
//
// # Error Handling
//
// Every error response has the body {"error": "<message>"}:
//   - 400: body is not JSON, or imagePath is missing/empty
//   - 404: no regular file at the resolved path, or unknown route
//   - 422: image narrower than the slot count
//   - 500: the file could not be decoded as an image, or an internal failure
//
// # Wiring
//
// Module provides the logger, planogram, handler and server to an fx
// application and ties server start/stop to the fx lifecycle:
//
//	fx.New(
//	    fx.Provide(config.Load),
//	    server.Module,
//	).Run()
package server
