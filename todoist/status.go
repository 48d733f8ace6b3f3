package todoist

import "net/http"

// Operation names a ProjectService call. The value is also the span name.
type Operation string

const (
	OpCreateProject Operation = "create project"
	OpListProjects  Operation = "get all projects"
	OpGetProject    Operation = "get project"
	OpUpdateProject Operation = "update project"
	OpDeleteProject Operation = "delete project"
)

// expectedStatus is what the live API returns on success. Create answers
// 200 with the new project, not 201.
var expectedStatus = map[Operation]int{
	OpCreateProject: http.StatusOK,
	OpListProjects:  http.StatusOK,
	OpGetProject:    http.StatusOK,
	OpUpdateProject: http.StatusOK,
	OpDeleteProject: http.StatusNoContent,
}

// ExpectedStatus returns the success status for op, or 0 for an unknown op.
func ExpectedStatus(op Operation) int {
	return expectedStatus[op]
}
