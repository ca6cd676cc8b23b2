package config

import (
	"sync"
)

var (
	// globalManager is the singleton configuration manager instance
	globalManager *Manager
	globalMu      sync.Mutex
)

// New creates a manager over the settings file at path with the playback
// and browser sections registered and loaded.
func New(path string) (*Manager, error) {
	store, err := NewFileStore(path)
	if err != nil {
		return nil, err
	}

	manager := NewManager(store)
	if err := manager.RegisterSection(NewPlaybackSection()); err != nil {
		return nil, err
	}
	if err := manager.RegisterSection(NewBrowserSection()); err != nil {
		return nil, err
	}

	if err := manager.LoadAll(); err != nil {
		return nil, err
	}
	return manager, nil
}

// Initialize creates and initializes the global configuration manager.
// This should be called once at application startup.
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	manager, err := New(configPath)
	if err != nil {
		return err
	}
	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// GetPlayback returns the playback section from global config, or defaults
// when config is not initialized.
func GetPlayback() *PlaybackSection {
	if IsInitialized() {
		if section, ok := Global().GetSection(SectionIDPlayback); ok {
			if playback, ok := section.(*PlaybackSection); ok {
				return playback
			}
		}
	}
	return NewPlaybackSection()
}

// GetBrowser returns the browser section from global config, or defaults
// when config is not initialized.
func GetBrowser() *BrowserSection {
	if IsInitialized() {
		if section, ok := Global().GetSection(SectionIDBrowser); ok {
			if browser, ok := section.(*BrowserSection); ok {
				return browser
			}
		}
	}
	return NewBrowserSection()
}
