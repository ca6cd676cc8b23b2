package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSelectors_CoverEveryRole(t *testing.T) {
	table := DefaultSelectors()
	require.NoError(t, table.Validate())
	assert.Len(t, Roles(), 16)
	for _, role := range Roles() {
		assert.NotEmpty(t, table.Get(role), "role %s", role)
	}
}

func TestSelectorTable_WithOverrides(t *testing.T) {
	base := DefaultSelectors()

	merged, err := base.WithOverrides(map[string]string{
		"task-card":        ".task-card",
		"duration-readout": "   ",
	})
	require.NoError(t, err)

	assert.Equal(t, ".task-card", merged.Get(RoleTaskCard))
	assert.Equal(t, base.Get(RoleDuration), merged.Get(RoleDuration), "blank override is ignored")
	assert.Equal(t, ".recommendDetail", base.Get(RoleTaskCard), "base table is not modified")
}

func TestSelectorTable_WithOverrides_UnknownRole(t *testing.T) {
	_, err := DefaultSelectors().WithOverrides(map[string]string{
		"video-player": "video",
		"lesson-itme":  ".panelContent",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lesson-itme, video-player")
}

func TestSelectorTable_Validate_Missing(t *testing.T) {
	table := DefaultSelectors()
	delete(table, RoleBackToList)
	table[RolePlayControl] = ""

	err := table.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(RoleBackToList))
	assert.Contains(t, err.Error(), string(RolePlayControl))
}

func TestSelectorTable_GetPanicsOnMissingRole(t *testing.T) {
	assert.Panics(t, func() {
		SelectorTable{}.Get(RoleTaskCard)
	})
}

func TestAssessmentFilter(t *testing.T) {
	filter, err := NewAssessmentFilter(DefaultAssessmentPatterns)
	require.NoError(t, err)

	tests := []struct {
		name string
		want bool
	}{
		{name: "Chapter 1 Quiz", want: true},
		{name: "FINAL ASSESSMENT", want: true},
		{name: "第三章 测验", want: true},
		{name: "课后作业", want: true},
		{name: "期末考试", want: true},
		{name: "Introduction to Algebra", want: false},
		{name: "Worked example", want: false},
		{name: "Latest updates", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.IsAssessment(tt.name))
		})
	}
}

func TestAssessmentFilter_NilAndEmpty(t *testing.T) {
	var nilFilter *AssessmentFilter
	assert.False(t, nilFilter.IsAssessment("Quiz"))

	empty, err := NewAssessmentFilter(nil)
	require.NoError(t, err)
	assert.False(t, empty.IsAssessment("Quiz"))
}

func TestNewAssessmentFilter_InvalidPattern(t *testing.T) {
	_, err := NewAssessmentFilter([]string{"[quiz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[quiz")
}
