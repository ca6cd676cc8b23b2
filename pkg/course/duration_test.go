package course

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		readout string
		want    int
		wantErr bool
	}{
		{name: "hours minutes seconds", readout: "1:02:03", want: 3723},
		{name: "minutes seconds", readout: "10:00", want: 600},
		{name: "seconds only", readout: "45", want: 45},
		{name: "zero", readout: "00:00", want: 0},
		{name: "surrounding whitespace", readout: "  03:07 \n", want: 187},
		{name: "padded fields", readout: "01: 05", want: 65},
		{name: "minutes over sixty", readout: "75:00", want: 4500},
		{name: "four fields", readout: "1:2:3:4", wantErr: true},
		{name: "empty", readout: "", wantErr: true},
		{name: "empty field", readout: "10:", wantErr: true},
		{name: "non numeric", readout: "ab:cd", wantErr: true},
		{name: "negative", readout: "-1:00", wantErr: true},
		{name: "placeholder", readout: "--:--", wantErr: true},
		{name: "hours overflow", readout: "999999999999999999:00:00", wantErr: true},
		{name: "seconds beyond duration range", readout: "9999999999999", wantErr: true},
		{name: "longest duration", readout: "9223372036", want: 9223372036},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.readout)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnexpectedState), "error should match ErrUnexpectedState: %v", err)
				var stateErr *UnexpectedStateError
				require.True(t, errors.As(err, &stateErr))
				assert.Equal(t, tt.readout, stateErr.Value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemainingWait(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		elapsed int
		speed   float64
		want    time.Duration
	}{
		{name: "double speed", total: 3723, elapsed: 600, speed: 2.0, want: 1562 * time.Second},
		{name: "normal speed", total: 600, elapsed: 0, speed: 1.0, want: 600 * time.Second},
		{name: "rounds half up", total: 5, elapsed: 0, speed: 2.0, want: 3 * time.Second},
		{name: "rounds down", total: 10, elapsed: 0, speed: 3.0, want: 3 * time.Second},
		{name: "slower than real time", total: 60, elapsed: 30, speed: 0.5, want: 60 * time.Second},
		{name: "already finished", total: 60, elapsed: 60, speed: 1.0, want: 0},
		{name: "elapsed beyond total clamps", total: 60, elapsed: 90, speed: 1.5, want: 0},
		{name: "zero speed", total: 60, elapsed: 0, speed: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemainingWait(tt.total, tt.elapsed, tt.speed))
		})
	}
}

func TestPacing_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(p *Pacing)
		wantErr bool
	}{
		{name: "defaults", modify: func(p *Pacing) {}},
		{name: "confirm poll enabled", modify: func(p *Pacing) { p.ConfirmTimeout = 30 * time.Second }},
		{name: "zero speed", modify: func(p *Pacing) { p.Speed = 0 }, wantErr: true},
		{name: "negative speed", modify: func(p *Pacing) { p.Speed = -2 }, wantErr: true},
		{name: "negative buffer", modify: func(p *Pacing) { p.SettleBuffer = -time.Second }, wantErr: true},
		{name: "zero ready timeout", modify: func(p *Pacing) { p.ReadyTimeout = 0 }, wantErr: true},
		{name: "negative settle", modify: func(p *Pacing) { p.NavigationSettle = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPacing()
			tt.modify(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
