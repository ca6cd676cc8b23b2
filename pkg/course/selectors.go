package course

import (
	"fmt"
	"sort"
	"strings"
)

// Role is a symbolic UI role the engine looks up in a SelectorTable.
type Role string

const (
	RolePersonalCenter Role = "personal-center"
	RoleMyTasksTab     Role = "my-tasks-tab"
	RoleTaskCard       Role = "task-card"
	RoleTaskName       Role = "task-name"
	RoleStudyButton    Role = "study-button"
	RoleTaskProgress   Role = "task-progress"
	RoleLessonItem     Role = "lesson-list-item"
	RoleLessonTitle    Role = "lesson-title"
	RoleLessonDone     Role = "lesson-completion-marker"
	RoleVideoUnit      Role = "video-unit-container"
	RoleUnitDone       Role = "completion-marker-within-unit"
	RolePlayControl    Role = "play-control"
	RoleVideoElement   Role = "video-element"
	RoleCurrentTime    Role = "current-time-readout"
	RoleDuration       Role = "duration-readout"
	RoleBackToList     Role = "back-to-list-control"
)

// SelectorTable maps UI roles to concrete locators for the target platform.
// Locators use the automation backend's selector syntax (CSS by default,
// "xpath=" prefixed for XPath).
type SelectorTable map[Role]string

// DefaultSelectors returns the locators for the kmelearning web client.
func DefaultSelectors() SelectorTable {
	return SelectorTable{
		RolePersonalCenter: `xpath=//*[@id="homeIndex"]/div/div[2]/div/div/div/div/div/div[7]/div/div/div/div/div[2]`,
		RoleMyTasksTab:     `xpath=//*[@id="root"]/div[3]/div/div[2]/div[2]/div[1]/div[2]/div/div[3]/div[2]`,
		RoleTaskCard:       `.recommendDetail`,
		RoleTaskName:       `xpath=.//div[contains(@class,'recomendName')]/span`,
		RoleStudyButton:    `.studyButton`,
		RoleTaskProgress:   `.prograssSpan`,
		RoleLessonItem:     `.panelContent`,
		RoleLessonTitle:    `.activityTitle`,
		RoleLessonDone:     `i`,
		RoleVideoUnit:      `.course-chapters-section`,
		RoleUnitDone:       `g`,
		RolePlayControl:    `.prism-big-play-btn`,
		RoleVideoElement:   `video`,
		RoleCurrentTime:    `.current-time`,
		RoleDuration:       `.duration`,
		RoleBackToList:     `xpath=//*[@id="root"]/div[3]/div/div/div[2]/div/div[1]`,
	}
}

// Roles returns every role the engine uses, sorted.
func Roles() []Role {
	defaults := DefaultSelectors()
	roles := make([]Role, 0, len(defaults))
	for role := range defaults {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// Get returns the locator for role. It panics on a missing role, since a
// table that passed Validate always has every role.
func (t SelectorTable) Get(role Role) string {
	sel, ok := t[role]
	if !ok {
		panic(fmt.Sprintf("selector table has no entry for role %q", role))
	}
	return sel
}

// WithOverrides returns a copy of t with overrides applied. Unknown role
// names are rejected so typos in a run file surface immediately.
func (t SelectorTable) WithOverrides(overrides map[string]string) (SelectorTable, error) {
	merged := make(SelectorTable, len(t))
	for role, sel := range t {
		merged[role] = sel
	}

	known := DefaultSelectors()
	var unknown []string
	for name, sel := range overrides {
		role := Role(name)
		if _, ok := known[role]; !ok {
			unknown = append(unknown, name)
			continue
		}
		if strings.TrimSpace(sel) == "" {
			continue
		}
		merged[role] = sel
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown selector roles: %s", strings.Join(unknown, ", "))
	}
	return merged, nil
}

// Validate checks that every role has a non-empty locator.
func (t SelectorTable) Validate() error {
	var missing []string
	for _, role := range Roles() {
		if strings.TrimSpace(t[role]) == "" {
			missing = append(missing, string(role))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("selector table missing roles: %s", strings.Join(missing, ", "))
	}
	return nil
}
