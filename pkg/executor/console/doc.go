// Package console implements the operator-facing executor.
//
// The console executor owns everything around the traversal engine in
// pkg/course: it starts the browser, waits for the operator to log in by
// hand, asks which tasks to study and at what speed, runs the orchestrator,
// and finally writes artifacts and records the run in the local history.
//
//	┌──────────────────────────────────────────────┐
//	│               Console Executor               │
//	│  - Login handshake                           │
//	│  - Task and speed prompts                    │
//	│  - Artifacts (run.json, summary.md)          │
//	│  - Run history (SQLite)                      │
//	└──────────────────────┬───────────────────────┘
//	                       │
//	                       ▼
//	            ┌──────────────────────┐
//	            │  course.Orchestrator │
//	            └──────────────────────┘
//
// Example usage:
//
//	cfg := console.DefaultRunConfig()
//	cfg.Tasks = []string{"Safety Basics"}
//	cfg.Speed = 2
//
//	executor, _ := console.NewExecutor(cfg, console.SettingsFromConfig())
//	summary, err := executor.Run(ctx)
package console
