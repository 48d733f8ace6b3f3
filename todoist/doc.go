// Package todoist is a typed client for the Todoist REST v2 projects API,
// built for end-to-end test scenarios.
//
// Every ProjectService method returns an envelope.Envelope: a 2xx response
// carries the decoded Project (or list), a non-2xx response carries the raw
// body text, and delete carries nothing. Only transport failures, decode
// failures and invalid input are returned as errors, so a test can assert on
// a 404 as easily as on a 200.
//
//	svc, err := todoist.NewFromSettings(settings, todoist.WithSink(sink))
//	env, err := svc.CreateProject(ctx, todoist.CreateProjectRequest{Name: "demo"})
//	if env.StatusCode != todoist.ExpectedStatus(todoist.OpCreateProject) { ... }
//
// The Authorization header is sent only when a token is configured.
package todoist
