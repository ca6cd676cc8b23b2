// Package browser drives a real Chromium page through Playwright and exposes
// it to the course engine as a course.Backend.
//
// # Lifecycle
//
//  1. Initialize: Launcher.Initialize installs and starts the Playwright driver
//  2. Launch: Launcher.Launch opens one browser with a single page
//  3. Use: the engine queries, clicks and evaluates through the Session
//  4. Shutdown: Launcher.Shutdown closes every session and stops the driver
//
// Element handles returned by a Session are playwright.ElementHandle values
// wrapped as course.Handle. They die with the page they came from.
//
// # Failure snapshots
//
// Snapshotter implements course.Diagnostics. When a node fails it writes the
// URL, the error and a digest of the page markup (scripts and styles
// stripped, ids and classes kept) to the run's snapshot directory.
package browser
