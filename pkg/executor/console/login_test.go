package console

import (
	"context"
	"testing"

	"github.com/entrhq/coursepilot/pkg/course"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	b := newFakeBrowser()
	p := &scriptedPrompter{}
	log, buf := quietLogger()

	err := Login(context.Background(), b, p, course.DefaultSelectors(), testLoginURL, "个人中心", log)
	require.NoError(t, err)
	assert.Equal(t, []string{testLoginURL}, b.navigations)
	assert.Len(t, p.pauses, 1)
	assert.Contains(t, buf.String(), "Logged in")
}

func TestVerifyLogin(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(b *fakeBrowser)
		wantErr string
	}{
		{
			name:  "matching text",
			setup: func(b *fakeBrowser) {},
		},
		{
			name:  "surrounding whitespace",
			setup: func(b *fakeBrowser) { b.personalText = "  个人中心\n" },
		},
		{
			name:    "different text",
			setup:   func(b *fakeBrowser) { b.personalText = "登录" },
			wantErr: `expected "个人中心", found "登录"`,
		},
		{
			name:    "element missing",
			setup:   func(b *fakeBrowser) { b.page = "blank" },
			wantErr: "personal center not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBrowser()
			b.page = "home"
			tt.setup(b)

			err := VerifyLogin(context.Background(), b, course.DefaultSelectors(), "个人中心")
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, course.ErrFatal)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
