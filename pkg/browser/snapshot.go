package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/entrhq/coursepilot/pkg/course"
)

// PageSource exposes what a snapshot needs from a live page.
type PageSource interface {
	Content(ctx context.Context) (string, error)
	URL() string
}

// Snapshotter writes a digest of the current page whenever a traversal node
// fails. It implements course.Diagnostics and never navigates.
type Snapshotter struct {
	mu        sync.Mutex
	source    PageSource
	dir       string
	maxLength int
	count     int
	written   []string
	log       course.Logger
}

// NewSnapshotter writes snapshots for source into dir, creating it lazily.
func NewSnapshotter(source PageSource, dir string, log course.Logger) *Snapshotter {
	if log == nil {
		log = course.NopLogger()
	}
	return &Snapshotter{
		source:    source,
		dir:       dir,
		maxLength: DefaultDigestLength,
		log:       log,
	}
}

var _ course.Diagnostics = (*Snapshotter)(nil)

// CaptureFailure writes <n>-<label>.txt holding the cause, the URL and the
// page digest. Snapshot errors are logged and otherwise ignored.
func (s *Snapshotter) CaptureFailure(ctx context.Context, label string, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.capture(ctx, label, cause)
	if err != nil {
		s.log.Warnf("Could not capture page snapshot for %s: %v", label, err)
		return
	}
	s.written = append(s.written, path)
	s.log.Debugf("Page snapshot written to %s", path)
}

// Written returns the snapshot files written so far.
func (s *Snapshotter) Written() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.written...)
}

func (s *Snapshotter) capture(ctx context.Context, label string, cause error) (string, error) {
	raw, err := s.source.Content(ctx)
	if err != nil {
		return "", err
	}
	digest, err := digestHTML(raw, s.maxLength)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	s.count++
	name := fmt.Sprintf("%03d-%s.txt", s.count, slug(label))
	path := filepath.Join(s.dir, name)

	var b strings.Builder
	fmt.Fprintf(&b, "Label: %s\n", label)
	if cause != nil {
		fmt.Fprintf(&b, "Error: %v\n", cause)
	}
	fmt.Fprintf(&b, "URL: %s\n", s.source.URL())
	if digest.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", digest.Title)
	}
	if digest.Truncated {
		fmt.Fprintf(&b, "Truncated: true\n")
	}
	b.WriteString("\n")
	b.WriteString(digest.Markup)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return path, nil
}

var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// slug turns a node label into a file-name-safe fragment.
func slug(label string) string {
	s := strings.Trim(unsafeChars.ReplaceAllString(label, "_"), "_")
	if s == "" {
		return "node"
	}
	if r := []rune(s); len(r) > 60 {
		s = string(r[:60])
	}
	return s
}
