package report

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/kbukum/todokit/logger"
)

// DirSink writes each exchange as an indented JSON attachment under Dir.
// File names are "<method>-<uuid>.json" so parallel runs never collide.
// Credentials are redacted before writing.
type DirSink struct {
	fs  afero.Fs
	dir string
	log *logger.Logger

	mu      sync.Mutex
	written []string
}

// NewDirSink creates a DirSink rooted at dir on fs.
func NewDirSink(fs afero.Fs, dir string) *DirSink {
	return &DirSink{
		fs:  fs,
		dir: dir,
		log: logger.WithComponent("report"),
	}
}

// Record writes the exchange. Write failures are logged, never returned.
func (s *DirSink) Record(ctx context.Context, req RequestSnapshot, resp ResponseSnapshot) {
	path, err := s.write(req, resp)
	if err != nil {
		s.log.WithContext(ctx).Warn("failed to write report attachment", logger.ErrorFields("report", err))
		return
	}

	s.mu.Lock()
	s.written = append(s.written, path)
	s.mu.Unlock()
}

func (s *DirSink) write(req RequestSnapshot, resp ResponseSnapshot) (string, error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	data, err := json.MarshalIndent(Exchange{Request: Redact(req), Response: resp}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode exchange: %w", err)
	}

	name := fmt.Sprintf("%s-%s.json", strings.ToLower(req.Method), uuid.NewString())
	path := filepath.Join(s.dir, name)
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Files returns the paths written so far.
func (s *DirSink) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.written))
	copy(out, s.written)
	return out
}
