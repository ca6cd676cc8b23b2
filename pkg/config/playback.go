package config

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/entrhq/coursepilot/pkg/course"
)

const (
	// SectionIDPlayback is the identifier for the playback settings section
	SectionIDPlayback = "playback"

	maxSpeed = 16.0
)

// PlaybackSection holds the pacing defaults used when a run does not
// override them.
type PlaybackSection struct {
	Speed            float64       `json:"speed"`
	SettleBuffer     time.Duration `json:"settle_buffer"`
	ReadyTimeout     time.Duration `json:"ready_timeout"`
	NavigationSettle time.Duration `json:"navigation_settle"`
	ReadoutDelay     time.Duration `json:"readout_delay"`
	ConfirmTimeout   time.Duration `json:"confirm_timeout"`
	mu               sync.RWMutex
}

// NewPlaybackSection creates a playback section with default settings.
func NewPlaybackSection() *PlaybackSection {
	s := &PlaybackSection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *PlaybackSection) ID() string {
	return SectionIDPlayback
}

// Title returns the section title.
func (s *PlaybackSection) Title() string {
	return "Playback"
}

// Description returns the section description.
func (s *PlaybackSection) Description() string {
	return "Default playback speed and the pauses taken around each video."
}

// Data returns the current configuration data.
func (s *PlaybackSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"speed":             s.Speed,
		"settle_buffer":     s.SettleBuffer.String(),
		"ready_timeout":     s.ReadyTimeout.String(),
		"navigation_settle": s.NavigationSettle.String(),
		"readout_delay":     s.ReadoutDelay.String(),
		"confirm_timeout":   s.ConfirmTimeout.String(),
	}
}

// SetData updates the configuration from the provided data.
func (s *PlaybackSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "speed":
			speed, ok := value.(float64)
			if !ok {
				return fmt.Errorf("invalid value type for speed: expected number, got %T", value)
			}
			s.Speed = speed
		case "settle_buffer":
			if err := setDuration(&s.SettleBuffer, key, value); err != nil {
				return err
			}
		case "ready_timeout":
			if err := setDuration(&s.ReadyTimeout, key, value); err != nil {
				return err
			}
		case "navigation_settle":
			if err := setDuration(&s.NavigationSettle, key, value); err != nil {
				return err
			}
		case "readout_delay":
			if err := setDuration(&s.ReadoutDelay, key, value); err != nil {
				return err
			}
		case "confirm_timeout":
			if err := setDuration(&s.ConfirmTimeout, key, value); err != nil {
				return err
			}
		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
	}
	return nil
}

// Validate validates the current configuration.
func (s *PlaybackSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Speed <= 0 || s.Speed > maxSpeed || math.IsNaN(s.Speed) {
		return fmt.Errorf("speed must be in (0, %g], got %v", maxSpeed, s.Speed)
	}
	return s.pacing().Validate()
}

// Reset resets the section to default configuration.
func (s *PlaybackSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := course.DefaultPacing()
	s.Speed = d.Speed
	s.SettleBuffer = d.SettleBuffer
	s.ReadyTimeout = d.ReadyTimeout
	s.NavigationSettle = d.NavigationSettle
	s.ReadoutDelay = d.ReadoutDelay
	s.ConfirmTimeout = d.ConfirmTimeout
}

// Pacing returns the section as engine pacing.
func (s *PlaybackSection) Pacing() course.Pacing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pacing()
}

func (s *PlaybackSection) pacing() course.Pacing {
	return course.Pacing{
		Speed:            s.Speed,
		SettleBuffer:     s.SettleBuffer,
		ReadyTimeout:     s.ReadyTimeout,
		NavigationSettle: s.NavigationSettle,
		ReadoutDelay:     s.ReadoutDelay,
		ConfirmTimeout:   s.ConfirmTimeout,
	}
}

// setDuration accepts a duration string ("5s") or a JSON number of
// nanoseconds.
func setDuration(dst *time.Duration, key string, value interface{}) error {
	switch v := value.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration string for %s: %w", key, err)
		}
		*dst = d
	case float64:
		// JSON numbers come as float64
		*dst = time.Duration(v)
	case int64:
		*dst = time.Duration(v)
	default:
		return fmt.Errorf("invalid value type for %s: expected string or number, got %T", key, value)
	}
	return nil
}
