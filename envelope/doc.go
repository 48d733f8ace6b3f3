// Package envelope turns raw HTTP responses into typed results.
//
// An Envelope carries the status code, the response headers and a Content
// value that is exactly one of:
//
//   - Typed: a 2xx response whose body decoded into T
//   - Raw: a non-2xx response, body kept as text
//   - Empty: a 2xx response with no body, or no decoder
//
// A 2xx body that fails to decode is a DECODE_FAILED error, never Raw
// content, so a contract change on the server surfaces as a failure.
//
//	env, err := envelope.Build(resp, envelope.JSON[todoist.Project](envelope.Validated()))
//	if p, ok := env.Value(); ok { ... }
package envelope
