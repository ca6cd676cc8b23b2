package course

import (
	"context"
	"fmt"
	"strings"
)

// Walker plays every video unit of one lesson and returns to the lesson list.
type Walker struct {
	session   *Session
	selectors SelectorTable
	filter    *AssessmentFilter
	player    *Player
	opts      options
}

// NewWalker creates a walker. A nil filter treats every unit as video.
func NewWalker(session *Session, selectors SelectorTable, filter *AssessmentFilter, opts ...Option) *Walker {
	return &Walker{
		session:   session,
		selectors: selectors,
		filter:    filter,
		player:    NewPlayer(session, selectors, opts...),
		opts:      buildOptions(opts),
	}
}

// Walk enters lesson, plays its units in list order and navigates back out.
// Unit failures stay in their UnitOutcome; the lesson fails only when it
// cannot be entered or its unit list cannot be read. A failed exit is kept
// as a warning and the lesson still counts as processed.
func (w *Walker) Walk(ctx context.Context, lesson Lesson) LessonOutcome {
	out := LessonOutcome{Index: lesson.Index, Name: lesson.Name, Status: StatusCompleted}
	log := w.opts.log

	if err := clickAndSettle(ctx, w.session, w.opts.clock, lesson.Handle); err != nil {
		out.Status = StatusFailed
		out.Err = fmt.Errorf("enter lesson: %w", err)
		return out
	}
	log.Infof("Started lesson: %s", lesson.Name)

	units, err := w.listUnits(ctx)
	if err != nil {
		out.Status = StatusFailed
		out.Err = err
	} else {
		log.Infof("Lesson %s has %d videos", lesson.Name, len(units))
		for _, unit := range units {
			if ctx.Err() != nil {
				break
			}
			if unit.Assessment {
				out.AssessmentsSkipped++
				log.Debugf("Ignoring assessment entry: %s", unit.Name)
				continue
			}
			out.Units = append(out.Units, w.player.Play(ctx, unit))
		}
	}

	if err := clickRole(ctx, w.session, w.opts.clock, w.selectors.Get(RoleBackToList)); err != nil {
		out.ExitErr = err
		log.Warnf("Could not return to the lesson list from %s: %v", lesson.Name, err)
	} else if out.Status == StatusCompleted {
		log.Infof("Finished lesson: %s", lesson.Name)
	}
	return out
}

// listUnits fetches the unit list of the entered lesson and classifies each
// entry. An entry whose name cannot be read is kept with a positional name.
func (w *Walker) listUnits(ctx context.Context) ([]VideoUnit, error) {
	handles, err := w.session.Backend.FindAll(ctx, nil, w.selectors.Get(RoleVideoUnit))
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}

	units := make([]VideoUnit, 0, len(handles))
	for i, h := range handles {
		name, err := w.session.Backend.ReadText(ctx, h)
		name = firstLine(name)
		if err != nil || name == "" {
			name = fmt.Sprintf("video #%d", i+1)
		}
		units = append(units, VideoUnit{
			Name:       name,
			Handle:     h,
			Assessment: w.filter.IsAssessment(name),
		})
	}
	return units, nil
}

// firstLine returns the first non-empty trimmed line of text.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
