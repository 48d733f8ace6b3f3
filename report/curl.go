package report

import (
	"sort"
	"strings"
)

// Curl renders req as a curl command line. Header order is stable.
func Curl(req RequestSnapshot) string {
	var b strings.Builder
	b.WriteString("curl -X ")
	b.WriteString(req.Method)

	keys := make([]string, 0, len(req.Headers))
	for k := range req.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" -H ")
		b.WriteString(shellQuote(k + ": " + req.Headers[k]))
	}

	if req.Body != "" {
		b.WriteString(" -d ")
		b.WriteString(shellQuote(req.Body))
	}

	b.WriteString(" ")
	b.WriteString(shellQuote(req.URL))
	return b.String()
}

// shellQuote wraps s in single quotes for POSIX shells.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
