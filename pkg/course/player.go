package course

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// confirmPollInterval is the spacing of completion-marker polls after a
// pacing wait.
const confirmPollInterval = time.Second

// setPlaybackScript sets the playback rate on the first element matching a
// CSS selector and resumes it when paused. It returns false when no element
// matches.
const setPlaybackScript = `([selector, rate]) => {
  const video = document.querySelector(selector);
  if (!video) {
    return false;
  }
  video.playbackRate = rate;
  if (video.paused) {
    const started = video.play();
    if (started && typeof started.catch === "function") {
      started.catch(() => {});
    }
  }
  return true;
}`

// Player drives a single VideoUnit: skip check, activation, speed, pacing.
type Player struct {
	session   *Session
	selectors SelectorTable
	opts      options
}

// NewPlayer creates a player bound to session.
func NewPlayer(session *Session, selectors SelectorTable, opts ...Option) *Player {
	return &Player{
		session:   session,
		selectors: selectors,
		opts:      buildOptions(opts),
	}
}

// Play processes unit and always returns control with an outcome. A unit
// already carrying a completion marker is skipped without a click or a wait.
func (p *Player) Play(ctx context.Context, unit VideoUnit) UnitOutcome {
	out := UnitOutcome{Name: unit.Name}
	log := p.opts.log

	done, err := Probe(ctx, p.session.Backend, unit.Handle, p.selectors.Get(RoleUnitDone))
	if err != nil {
		return p.fail(ctx, out, err)
	}
	if done {
		log.Infof("Skipping watched video: %s", unit.Name)
		out.Status = StatusSkipped
		return out
	}

	if err := p.play(ctx, unit, &out); err != nil {
		return p.fail(ctx, out, err)
	}

	out.Status = StatusCompleted
	return out
}

func (p *Player) play(ctx context.Context, unit VideoUnit, out *UnitOutcome) error {
	backend := p.session.Backend
	pacing := p.session.Pacing
	clock := p.opts.clock
	log := p.opts.log

	if err := clickAndSettle(ctx, p.session, clock, unit.Handle); err != nil {
		return fmt.Errorf("open video: %w", err)
	}

	control, err := backend.WaitUntil(ctx, p.selectors.Get(RolePlayControl), StateVisible, pacing.ReadyTimeout)
	if err != nil {
		return fmt.Errorf("play control not ready: %w", err)
	}
	if err := backend.Click(ctx, control); err != nil {
		return fmt.Errorf("start playback: %w", err)
	}

	if err := p.applySpeed(ctx); err != nil {
		return err
	}
	if pacing.ReadoutDelay > 0 {
		clock.Sleep(pacing.ReadoutDelay)
	}

	total, err := p.readClock(ctx, RoleDuration)
	if err != nil {
		return err
	}
	elapsed, err := p.readClock(ctx, RoleCurrentTime)
	if err != nil {
		return err
	}

	wait := RemainingWait(total, elapsed, pacing.Speed)
	out.TotalSeconds = total
	out.ElapsedSeconds = elapsed
	out.Wait = wait

	log.Infof("Playing %s: %ds of %ds watched, waiting %s at %gx", unit.Name, elapsed, total, wait, pacing.Speed)
	clock.Sleep(wait + pacing.SettleBuffer)

	if pacing.ConfirmTimeout > 0 {
		confirmed, err := p.confirm(ctx, unit)
		if err != nil {
			log.Warnf("Could not confirm completion of %s: %v", unit.Name, err)
		}
		if !confirmed {
			out.Unconfirmed = true
			log.Warnf("Platform has not marked %s as watched yet", unit.Name)
		}
	}
	return nil
}

// applySpeed sets the session speed on the page's video element.
func (p *Player) applySpeed(ctx context.Context) error {
	result, err := p.session.Backend.RunScript(ctx, setPlaybackScript, []any{
		p.selectors.Get(RoleVideoElement),
		p.session.Pacing.Speed,
	})
	if err != nil {
		return fmt.Errorf("set playback rate: %w", err)
	}
	if ok, isBool := result.(bool); isBool && !ok {
		return &UnexpectedStateError{
			What:   "player",
			Value:  p.selectors.Get(RoleVideoElement),
			Reason: "no video element to apply playback rate to",
		}
	}
	return nil
}

// readClock reads and parses the time readout for role.
func (p *Player) readClock(ctx context.Context, role Role) (int, error) {
	selector := p.selectors.Get(role)
	lookup, err := p.session.Backend.FindOne(ctx, nil, selector)
	if err != nil {
		return 0, fmt.Errorf("find %s: %w", role, err)
	}
	if !lookup.Found {
		return 0, &UnexpectedStateError{What: "player", Value: selector, Reason: string(role) + " not found"}
	}
	text, err := p.session.Backend.ReadText(ctx, lookup.Handle)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", role, err)
	}
	return ParseClock(strings.TrimSpace(text))
}

// confirm polls the unit's completion marker until it appears or
// ConfirmTimeout elapses.
func (p *Player) confirm(ctx context.Context, unit VideoUnit) (bool, error) {
	marker := p.selectors.Get(RoleUnitDone)
	attempts := int(p.session.Pacing.ConfirmTimeout / confirmPollInterval)
	for i := 0; ; i++ {
		done, err := Probe(ctx, p.session.Backend, unit.Handle, marker)
		if err != nil {
			return false, err
		}
		if done {
			return true, nil
		}
		if i >= attempts {
			return false, nil
		}
		p.opts.clock.Sleep(confirmPollInterval)
	}
}

func (p *Player) fail(ctx context.Context, out UnitOutcome, err error) UnitOutcome {
	p.opts.log.Errorf("Video %s failed: %v", out.Name, err)
	p.opts.captureFailure(ctx, "video-"+out.Name, err)
	out.Status = StatusFailed
	out.Err = err
	return out
}
