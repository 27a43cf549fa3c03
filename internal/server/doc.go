// Package server exposes a [tasks.Session] over HTTP.
//
// # Routes
//
//	GET    /health              liveness and run state
//	GET    /api/records         queue contents with aggregate stats
//	POST   /api/records         queue usernames from a text body or {"text": ...} / {"usernames": [...]}
//	POST   /api/records/upload  queue usernames from a multipart "file" field (xlsx, csv, txt)
//	DELETE /api/records         stop any run and clear the queue
//	GET    /api/run             current run state
//	POST   /api/run             start a run (no-op while one is active)
//	DELETE /api/run             stop the active run
//	GET    /api/stats           aggregate counts and progress
//	GET    /api/export          download results; ?format=xlsx|csv|json
//
// Routing uses chi with its request ID, recoverer and CORS middleware. Requests are logged
// through the application's charm logger rather than chi's stdlib logger.
//
// Runs started over HTTP are bound to the server's lifetime, not to the request that started
// them, so a run keeps going after the POST returns and stops when the server shuts down.
package server
