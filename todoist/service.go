package todoist

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/todokit/config"
	"github.com/kbukum/todokit/envelope"
	"github.com/kbukum/todokit/errors"
	"github.com/kbukum/todokit/httpclient"
	"github.com/kbukum/todokit/logger"
	"github.com/kbukum/todokit/observability"
	"github.com/kbukum/todokit/report"
	"github.com/kbukum/todokit/validation"
)

const (
	serviceName  = "ProjectService"
	projectsPath = "/rest/v2/projects"

	attrProjectID = "todoist.project.id"
)

// Transport sends HTTP requests. *httpclient.Adapter implements it.
type Transport interface {
	Do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error)
}

// ProjectService is the typed facade over the projects endpoints. It is safe
// for concurrent use.
type ProjectService struct {
	transport Transport
	token     string
	log       *logger.Logger
	metrics   *observability.Metrics
	sink      report.Sink
}

// Option configures a ProjectService.
type Option func(*ProjectService)

// WithToken sets the bearer token. An empty token sends no Authorization header.
func WithToken(token string) Option {
	return func(s *ProjectService) { s.token = token }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *ProjectService) { s.log = l }
}

// WithMetrics records operation metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *ProjectService) { s.metrics = m }
}

// WithSink sets the report sink used by NewFromSettings when it builds the
// transport. It has no effect on NewProjectService.
func WithSink(sink report.Sink) Option {
	return func(s *ProjectService) { s.sink = sink }
}

// NewProjectService creates a service over an existing transport. A nil
// transport is a MISSING_CONFIGURATION error.
func NewProjectService(transport Transport, opts ...Option) (*ProjectService, error) {
	if transport == nil {
		return nil, errors.MissingConfig("transport")
	}
	return newService(transport, opts), nil
}

// NewFromSettings builds the HTTP transport from settings and returns a
// service using it. The API key from settings is the default token; a
// WithToken option overrides it.
func NewFromSettings(settings *config.Settings, opts ...Option) (*ProjectService, error) {
	if settings == nil {
		return nil, errors.MissingConfig("settings")
	}
	s := newService(nil, append([]Option{WithToken(settings.API.Key)}, opts...))

	cfg := settings.HTTPClientConfig()
	cfg.Sink = s.sink
	cfg.Metrics = s.metrics
	cfg.Logger = s.log
	adapter, err := httpclient.New(cfg)
	if err != nil {
		return nil, err
	}
	s.transport = adapter
	return s, nil
}

func newService(transport Transport, opts []Option) *ProjectService {
	s := &ProjectService{transport: transport}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.GetGlobalLogger()
	}
	s.log = s.log.WithComponent("todoist")
	return s
}

// Close releases the transport's idle connections when it supports it.
func (s *ProjectService) Close(ctx context.Context) error {
	if c, ok := s.transport.(interface{ Close(context.Context) error }); ok {
		return c.Close(ctx)
	}
	return nil
}

// CreateProject creates a project. The request is validated before any I/O.
func (s *ProjectService) CreateProject(ctx context.Context, req CreateProjectRequest) (*envelope.Envelope[Project], error) {
	return call(ctx, s, OpCreateProject, func() (httpclient.Request, error) {
		if err := req.Validate(); err != nil {
			return httpclient.Request{}, err
		}
		return s.request(http.MethodPost, projectsPath, req), nil
	}, envelope.JSON[Project](envelope.Validated()))
}

// ListProjects returns all projects of the user.
func (s *ProjectService) ListProjects(ctx context.Context) (*envelope.Envelope[[]Project], error) {
	return call(ctx, s, OpListProjects, func() (httpclient.Request, error) {
		return s.request(http.MethodGet, projectsPath, nil), nil
	}, envelope.JSONList[Project](envelope.Validated()))
}

// GetProject returns one project.
func (s *ProjectService) GetProject(ctx context.Context, id string) (*envelope.Envelope[Project], error) {
	return call(ctx, s, OpGetProject, func() (httpclient.Request, error) {
		path, err := projectPath(id)
		if err != nil {
			return httpclient.Request{}, err
		}
		return s.request(http.MethodGet, path, nil), nil
	}, envelope.JSON[Project](envelope.Validated()), attribute.String(attrProjectID, id))
}

// UpdateProject applies a partial update. Only fields set in req are sent.
func (s *ProjectService) UpdateProject(ctx context.Context, id string, req UpdateProjectRequest) (*envelope.Envelope[Project], error) {
	return call(ctx, s, OpUpdateProject, func() (httpclient.Request, error) {
		path, err := projectPath(id)
		if err != nil {
			return httpclient.Request{}, err
		}
		if err := req.Validate(); err != nil {
			return httpclient.Request{}, err
		}
		return s.request(http.MethodPost, path, req), nil
	}, envelope.JSON[Project](envelope.Validated()), attribute.String(attrProjectID, id))
}

// DeleteProject deletes a project. A successful envelope has Empty content.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) (*envelope.Envelope[envelope.Nothing], error) {
	return call[envelope.Nothing](ctx, s, OpDeleteProject, func() (httpclient.Request, error) {
		path, err := projectPath(id)
		if err != nil {
			return httpclient.Request{}, err
		}
		return s.request(http.MethodDelete, path, nil), nil
	}, nil, attribute.String(attrProjectID, id))
}

// FindProjectsByPrefix lists projects whose name starts with prefix. A
// non-2xx listing is returned as an error.
func (s *ProjectService) FindProjectsByPrefix(ctx context.Context, prefix string) ([]Project, error) {
	env, err := s.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	projects, ok := env.Value()
	if !ok {
		text, _ := env.Content.Text()
		return nil, fmt.Errorf("list projects: HTTP %d: %s", env.StatusCode, text)
	}

	var matched []Project
	for _, p := range projects {
		if strings.HasPrefix(p.Name, prefix) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// DeleteProjectsByPrefix deletes every project whose name starts with
// prefix. It keeps going past individual failures and returns how many
// projects were deleted along with the joined failures.
func (s *ProjectService) DeleteProjectsByPrefix(ctx context.Context, prefix string) (int, error) {
	if err := validation.Required("prefix", prefix); err != nil {
		return 0, err
	}
	projects, err := s.FindProjectsByPrefix(ctx, prefix)
	if err != nil {
		return 0, err
	}

	deleted := 0
	var errs []error
	for _, p := range projects {
		env, err := s.DeleteProject(ctx, p.ID)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("delete %s: %w", p.ID, err))
		case !env.IsSuccess():
			text, _ := env.Content.Text()
			errs = append(errs, fmt.Errorf("delete %s: HTTP %d: %s", p.ID, env.StatusCode, text))
		default:
			deleted++
		}
	}

	s.log.WithContext(ctx).Info("cleaned up projects", logger.Fields(
		"prefix", prefix,
		"matched", len(projects),
		"deleted", deleted,
	))
	return deleted, stderrors.Join(errs...)
}

// request builds a transport request carrying the bearer token when one is set.
func (s *ProjectService) request(method, path string, body any) httpclient.Request {
	auth := httpclient.NoAuth()
	if s.token != "" {
		auth = httpclient.BearerAuth(s.token)
	}
	return httpclient.NewRequest(method, path, body, httpclient.WithRequestAuth(auth))
}

func projectPath(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", errors.MissingField("id")
	}
	if id == "." || id == ".." {
		return "", errors.Validation(fmt.Sprintf("id: %q is not a project id", id))
	}
	return projectsPath + "/" + url.PathEscape(id), nil
}

// call runs one operation inside a span: build the request, send it, classify
// the response and compare the status with the expected one.
func call[T any](
	ctx context.Context,
	s *ProjectService,
	op Operation,
	build func() (httpclient.Request, error),
	decode envelope.Decoder[T],
	attrs ...attribute.KeyValue,
) (env *envelope.Envelope[T], err error) {
	ctx, o := observability.StartOperation(ctx, serviceName, string(op), s.metrics, attrs...)
	defer func() {
		status := observability.StatusOK
		if err != nil || !env.IsSuccess() {
			status = observability.StatusError
		}
		o.End(status, err)
	}()

	req, err := build()
	if err != nil {
		return nil, err
	}

	resp, err := s.transport.Do(ctx, req)
	if err != nil {
		s.log.WithContext(ctx).Error(string(op)+" failed", logger.ErrorFields(string(op), err))
		return nil, err
	}
	o.SetAttributes(
		attribute.String(observability.AttrHTTPMethod, req.Method),
		attribute.Int(observability.AttrHTTPStatusCode, resp.StatusCode),
		attribute.Int(observability.AttrHTTPResendCount, resp.Attempts-1),
	)

	env, err = envelope.Build(resp, decode)
	if err != nil {
		s.log.WithContext(ctx).Error(string(op)+" returned an undecodable body", logger.MergeWithError(logger.Fields(
			logger.FieldOperation, string(op),
			logger.FieldStatusCode, resp.StatusCode,
		), err))
		return nil, err
	}

	s.checkStatus(ctx, op, env.StatusCode)
	return env, nil
}

// checkStatus warns when a successful status differs from the documented one.
func (s *ProjectService) checkStatus(ctx context.Context, op Operation, status int) {
	want := ExpectedStatus(op)
	if status < 200 || status >= 300 || status == want {
		return
	}
	s.log.WithContext(ctx).Warn("unexpected success status", logger.Fields(
		logger.FieldOperation, string(op),
		logger.FieldStatusCode, status,
		"expected_status", want,
	))
}
