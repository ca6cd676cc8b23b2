package course

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultAssessmentPatterns match unit names that are quizzes or exams rather
// than video content.
var DefaultAssessmentPatterns = []string{
	"*quiz*",
	"*assessment*",
	"*测验*",
	"*测试*",
	"*考试*",
	"*作业*",
}

// AssessmentFilter recognises assessment units by name. Matching is
// case-insensitive.
type AssessmentFilter struct {
	patterns []glob.Glob
}

// NewAssessmentFilter compiles patterns. An empty list matches nothing.
func NewAssessmentFilter(patterns []string) (*AssessmentFilter, error) {
	f := &AssessmentFilter{}
	for _, pattern := range patterns {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid assessment pattern '%s': %w", pattern, err)
		}
		f.patterns = append(f.patterns, g)
	}
	return f, nil
}

// IsAssessment reports whether name matches any pattern.
func (f *AssessmentFilter) IsAssessment(name string) bool {
	if f == nil {
		return false
	}
	name = strings.ToLower(strings.TrimSpace(name))
	for _, pattern := range f.patterns {
		if pattern.Match(name) {
			return true
		}
	}
	return false
}
