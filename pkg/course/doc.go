// Package course implements the traversal-and-pacing engine that walks an
// online-course catalog on behalf of an operator who has already logged in.
//
// The engine walks a three-level hierarchy against a live page:
//
//	Task → Lesson → VideoUnit
//
// Every node is probed for a platform-rendered completion marker at the moment
// it is visited. Completed nodes are skipped without a click; the rest are
// entered, and each unwatched video unit is played at the session's speed
// multiplier while the engine sleeps out its remaining duration.
//
// # Components
//
//   - ParseClock converts on-screen clock readouts ("1:02:03") to seconds
//   - Probe reports whether a node carries a completion marker
//   - Player drives one VideoUnit and schedules its pacing wait
//   - Walker walks the units of one Lesson
//   - Orchestrator walks the lessons of every selected Task
//   - Catalog lists tasks and resolves operator selections
//
// All page access goes through the Backend interface. Concrete locators live
// in a SelectorTable so markup changes on the platform never touch traversal
// code.
//
// # Positional re-fetch
//
// Navigation invalidates every element handle previously obtained. Lists are
// therefore addressed by position and re-fetched immediately before each
// indexed access; no list or handle is retained across a navigation.
//
// # Failure isolation
//
// Unit, lesson and task are each a failure boundary. A failure inside one is
// logged with the node's display name and recorded on its outcome value
// (UnitOutcome, LessonOutcome, TaskOutcome); iteration continues with the next
// sibling. Only errors raised before traversal starts (backend bootstrap,
// login) abort a run.
//
// # Concurrency
//
// Traversal is strictly sequential: one page, one cursor. The pacing wait is a
// plain sleep through the Clock and is not interrupted by context
// cancellation; cancellation is honoured between nodes.
package course
