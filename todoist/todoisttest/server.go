// Package todoisttest provides an in-memory fake of the Todoist projects API
// for tests.
//
//	srv := todoisttest.NewServer(todoisttest.WithToken("t"))
//	defer srv.Close()
//	svc, err := todoist.NewProjectService(adapterFor(srv.URL), todoist.WithToken("t"))
package todoisttest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/todokit/todoist"
	"github.com/kbukum/todokit/util"
)

// RecordedRequest is a request as the fake server saw it.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

// Reply is a canned response served instead of the normal handler.
type Reply struct {
	Status int
	Body   string
}

// Server is a fake projects API backed by a gin engine.
type Server struct {
	*httptest.Server

	token string

	mu        sync.Mutex
	projects  map[string]todoist.Project
	ids       []string
	nextOrder int
	replies   []Reply
	requests  []RecordedRequest
}

// Option configures a Server.
type Option func(*Server)

// WithToken makes the server require "Authorization: Bearer <token>".
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithProjects seeds the server with projects.
func WithProjects(projects ...todoist.Project) Option {
	return func(s *Server) {
		for _, p := range projects {
			s.put(p)
		}
	}
}

// NewServer starts a fake server. Call Close when done.
func NewServer(opts ...Option) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{projects: make(map[string]todoist.Project)}
	for _, opt := range opts {
		opt(s)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.record(), s.cannedReplies(), s.auth())

	projects := engine.Group("/rest/v2/projects")
	projects.GET("", s.listProjects)
	projects.POST("", s.createProject)
	projects.GET("/:id", s.getProject)
	projects.POST("/:id", s.updateProject)
	projects.DELETE("/:id", s.deleteProject)

	s.Server = httptest.NewServer(engine)
	return s
}

// ReplyNext queues canned replies served, in order, before normal handling resumes.
func (s *Server) ReplyNext(replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
}

// FailNext makes the next n requests answer with status.
func (s *Server) FailNext(n, status int) {
	replies := make([]Reply, n)
	for i := range replies {
		replies[i] = Reply{Status: status, Body: http.StatusText(status)}
	}
	s.ReplyNext(replies...)
}

// Requests returns every request received, in order.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Project returns the stored project with id.
func (s *Server) Project(id string) (todoist.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	return p, ok
}

// Projects returns the stored projects in creation order.
func (s *Server) Projects() []todoist.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list()
}

// --- middleware ---

func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method: c.Request.Method,
			Path:   c.Request.URL.Path,
			Header: c.Request.Header.Clone(),
			Body:   string(body),
		})
		s.mu.Unlock()
		c.Header("X-Request-Id", uuid.NewString())
		c.Next()
	}
}

func (s *Server) cannedReplies() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		if len(s.replies) == 0 {
			s.mu.Unlock()
			c.Next()
			return
		}
		r := s.replies[0]
		s.replies = s.replies[1:]
		s.mu.Unlock()

		c.Data(r.Status, contentType(r.Body), []byte(r.Body))
		c.Abort()
	}
}

func (s *Server) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.token == "" {
			c.Next()
			return
		}
		if c.GetHeader("Authorization") != "Bearer "+s.token {
			c.String(http.StatusUnauthorized, "Unauthorized")
			c.Abort()
			return
		}
		c.Next()
	}
}

// --- handlers ---

func (s *Server) listProjects(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.list())
}

func (s *Server) createProject(c *gin.Context) {
	var req todoist.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid JSON body: %v", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.String(http.StatusBadRequest, "Required argument is missing: name")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	p := todoist.Project{
		ID:         id,
		Name:       req.Name,
		Color:      req.Color.OrElse("charcoal"),
		IsFavorite: req.IsFavorite.OrElse(false),
		ViewStyle:  req.ViewStyle.OrElse(todoist.ViewStyleList),
		URL:        projectURL(id),
		ParentID:   req.ParentID,
	}
	if parent, ok := req.ParentID.Get(); ok {
		if _, exists := s.projects[parent]; !exists {
			c.String(http.StatusBadRequest, "Parent project not found")
			return
		}
	}
	s.put(p)
	c.JSON(http.StatusOK, s.projects[id])
}

func (s *Server) getProject(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[c.Param("id")]
	if !ok {
		c.String(http.StatusNotFound, "Project not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) updateProject(c *gin.Context) {
	var req todoist.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid JSON body: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[c.Param("id")]
	if !ok {
		c.String(http.StatusNotFound, "Project not found")
		return
	}
	if v, ok := req.Name.Get(); ok {
		p.Name = v
	}
	if v, ok := req.Color.Get(); ok {
		p.Color = v
	}
	if v, ok := req.IsFavorite.Get(); ok {
		p.IsFavorite = v
	}
	if v, ok := req.ViewStyle.Get(); ok {
		p.ViewStyle = v
	}
	if req.ParentID.IsSet() {
		p.ParentID = req.ParentID
	}
	s.projects[p.ID] = p
	c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProject(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	if _, ok := s.projects[id]; !ok {
		c.String(http.StatusNotFound, "Project not found")
		return
	}
	gone := s.subtree(id)
	for victim := range gone {
		delete(s.projects, victim)
	}
	s.ids = slices.DeleteFunc(s.ids, func(v string) bool {
		_, ok := gone[v]
		return ok
	})
	c.Status(http.StatusNoContent)
}

// --- helpers (callers hold s.mu, except during construction) ---

func (s *Server) put(p todoist.Project) {
	if _, exists := s.projects[p.ID]; !exists {
		s.ids = append(s.ids, p.ID)
	}
	if p.Order == 0 {
		s.nextOrder++
		p.Order = s.nextOrder
	}
	if p.URL == "" {
		p.URL = projectURL(p.ID)
	}
	s.projects[p.ID] = p
}

// subtree returns id and the ids of all its descendants.
func (s *Server) subtree(id string) map[string]struct{} {
	gone := map[string]struct{}{id: {}}
	queue := []string{id}
	for len(queue) > 0 {
		parentID := queue[0]
		queue = queue[1:]
		for childID, child := range s.projects {
			if _, seen := gone[childID]; seen {
				continue
			}
			if parent, ok := child.ParentID.Get(); ok && parent == parentID {
				gone[childID] = struct{}{}
				queue = append(queue, childID)
			}
		}
	}
	return gone
}

func (s *Server) list() []todoist.Project {
	out := make([]todoist.Project, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.projects[id])
	}
	return out
}

func projectURL(id string) string {
	return fmt.Sprintf("https://todoist.com/showProject?id=%s", id)
}

func contentType(body string) string {
	if json.Valid([]byte(body)) {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// Inbox returns a seed project shaped like a user's inbox.
func Inbox() todoist.Project {
	return todoist.Project{
		ID:             "inbox",
		Name:           "Inbox",
		Color:          "grey",
		IsInboxProject: true,
		ViewStyle:      todoist.ViewStyleList,
		ParentID:       util.None[string](),
	}
}
