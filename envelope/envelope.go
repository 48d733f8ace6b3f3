package envelope

import (
	"bytes"
	stderrors "errors"
	"net/http"

	"github.com/kbukum/todokit/errors"
	"github.com/kbukum/todokit/httpclient"
)

// Nothing is the type parameter for responses that carry no body, such as delete.
type Nothing struct{}

// Envelope is a response with its body classified into Content.
type Envelope[T any] struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers, keyed in canonical form.
	Headers map[string]string
	// Content is the classified body.
	Content Content[T]
}

// IsSuccess returns true if the status code is 2xx. A nil envelope is not a success.
func (e *Envelope[T]) IsSuccess() bool {
	return e != nil && isSuccess(e.StatusCode)
}

// Value returns the decoded value when the content is Typed.
func (e *Envelope[T]) Value() (T, bool) {
	return e.Content.Value()
}

// Header returns the named header, matched case-insensitively.
func (e *Envelope[T]) Header(name string) string {
	return e.Headers[http.CanonicalHeaderKey(name)]
}

// Build classifies resp. A nil decoder means no body is expected and a 2xx is
// Empty. With a decoder, a 2xx body that is blank or does not decode is a
// DECODE_FAILED error.
func Build[T any](resp *httpclient.Response, decode Decoder[T]) (*Envelope[T], error) {
	if resp == nil {
		return nil, errors.Validation("envelope: nil response")
	}

	env := &Envelope[T]{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
	}

	switch {
	case !isSuccess(resp.StatusCode):
		env.Content = Raw[T](string(resp.Body))
	case decode == nil:
		env.Content = Empty[T]()
	case len(bytes.TrimSpace(resp.Body)) == 0:
		return nil, errors.DecodeFailed(resp.StatusCode, resp.Body, errEmptyBody)
	default:
		v, err := decode(resp.Body)
		if err != nil {
			return nil, errors.DecodeFailed(resp.StatusCode, resp.Body, err)
		}
		env.Content = Typed(v)
	}

	return env, nil
}

var errEmptyBody = stderrors.New("empty response body")

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
