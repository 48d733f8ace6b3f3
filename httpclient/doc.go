// Package httpclient is the HTTP transport underneath the todokit services.
//
// An Adapter joins request paths onto a base URL, merges default and
// per-request headers, encodes bodies, applies authentication and retries
// transient failures with exponential backoff. Every attempt, successful or
// not, is reported to a report.Sink.
//
// HTTP error statuses are data, not errors: a 404 or a 500 comes back as a
// Response with no error. Only transport failures (timeouts, refused
// connections, cancellation) are returned as errors.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.todoist.com",
//	    Auth:    httpclient.BearerAuth(token),
//	    Sink:    report.NewLogSink(log),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/rest/v2/projects",
//	})
//
// # Retry
//
// Config.Retry defaults to DefaultRetryPolicy: three retries on 429, 500,
// 502, 503 and 504 with delays of 0.1s, 0.2s and 0.4s. When retries are
// exhausted on a status the last response is returned; when they are
// exhausted on a transport failure the last error is returned.
package httpclient
