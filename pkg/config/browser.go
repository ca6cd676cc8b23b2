package config

import (
	"fmt"
	"net/url"
	"sync"
)

const (
	// SectionIDBrowser is the identifier for the browser settings section
	SectionIDBrowser = "browser"

	defaultLoginURL         = "https://pc.kmelearning.com/jsncxyslhs/home/login"
	defaultVerificationText = "个人中心"
	defaultViewportWidth    = 1366
	defaultViewportHeight   = 900
	defaultBrowserTimeout   = 30000.0
)

// BrowserSection configures the browser and the platform entry points.
type BrowserSection struct {
	Headless         bool    `json:"headless"`
	ViewportWidth    int     `json:"viewport_width"`
	ViewportHeight   int     `json:"viewport_height"`
	Timeout          float64 `json:"timeout"`
	LoginURL         string  `json:"login_url"`
	CatalogURL       string  `json:"catalog_url"`
	VerificationText string  `json:"verification_text"`
	SkipInstall      bool    `json:"skip_install"`
	mu               sync.RWMutex
}

// NewBrowserSection creates a browser section with default settings.
func NewBrowserSection() *BrowserSection {
	s := &BrowserSection{}
	s.Reset()
	return s
}

// ID returns the section identifier.
func (s *BrowserSection) ID() string {
	return SectionIDBrowser
}

// Title returns the section title.
func (s *BrowserSection) Title() string {
	return "Browser"
}

// Description returns the section description.
func (s *BrowserSection) Description() string {
	return "Browser window, default operation timeout and the platform's login and task-list addresses."
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"headless":          s.Headless,
		"viewport_width":    s.ViewportWidth,
		"viewport_height":   s.ViewportHeight,
		"timeout":           s.Timeout,
		"login_url":         s.LoginURL,
		"catalog_url":       s.CatalogURL,
		"verification_text": s.VerificationText,
		"skip_install":      s.SkipInstall,
	}
}

// SetData updates the configuration from the provided data.
func (s *BrowserSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "headless", "skip_install":
			v, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value type for %s: expected bool, got %T", key, value)
			}
			if key == "headless" {
				s.Headless = v
			} else {
				s.SkipInstall = v
			}
		case "viewport_width", "viewport_height":
			v, ok := value.(float64)
			if !ok {
				return fmt.Errorf("invalid value type for %s: expected number, got %T", key, value)
			}
			if key == "viewport_width" {
				s.ViewportWidth = int(v)
			} else {
				s.ViewportHeight = int(v)
			}
		case "timeout":
			v, ok := value.(float64)
			if !ok {
				return fmt.Errorf("invalid value type for timeout: expected number, got %T", value)
			}
			s.Timeout = v
		case "login_url", "catalog_url", "verification_text":
			v, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for %s: expected string, got %T", key, value)
			}
			switch key {
			case "login_url":
				s.LoginURL = v
			case "catalog_url":
				s.CatalogURL = v
			default:
				s.VerificationText = v
			}
		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
	}
	return nil
}

// Validate validates the current configuration.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ViewportWidth <= 0 || s.ViewportHeight <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", s.ViewportWidth, s.ViewportHeight)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", s.Timeout)
	}
	if err := checkURL("login_url", s.LoginURL, true); err != nil {
		return err
	}
	if err := checkURL("catalog_url", s.CatalogURL, false); err != nil {
		return err
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *BrowserSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Headless = false
	s.ViewportWidth = defaultViewportWidth
	s.ViewportHeight = defaultViewportHeight
	s.Timeout = defaultBrowserTimeout
	s.LoginURL = defaultLoginURL
	s.CatalogURL = ""
	s.VerificationText = defaultVerificationText
	s.SkipInstall = false
}

// Snapshot returns a copy of the settings safe to read without locking.
func (s *BrowserSection) Snapshot() BrowserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return BrowserSettings{
		Headless:         s.Headless,
		ViewportWidth:    s.ViewportWidth,
		ViewportHeight:   s.ViewportHeight,
		Timeout:          s.Timeout,
		LoginURL:         s.LoginURL,
		CatalogURL:       s.CatalogURL,
		VerificationText: s.VerificationText,
		SkipInstall:      s.SkipInstall,
	}
}

// BrowserSettings is a lock-free copy of BrowserSection.
type BrowserSettings struct {
	Headless         bool
	ViewportWidth    int
	ViewportHeight   int
	Timeout          float64
	LoginURL         string
	CatalogURL       string
	VerificationText string
	SkipInstall      bool
}

func checkURL(key, raw string, required bool) error {
	if raw == "" {
		if required {
			return fmt.Errorf("%s is required", key)
		}
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", key, raw)
	}
	return nil
}
