// Package errors defines the todokit error taxonomy.
//
// Configuration, transport, decode and validation failures are all reported
// as *AppError values distinguished by their Code. Non-2xx HTTP responses are
// not errors; they travel back to the caller as data inside an envelope.
package errors
