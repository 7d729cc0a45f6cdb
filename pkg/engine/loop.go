package engine

import (
	"github.com/matzehuels/tagcloud/pkg/events"
	"github.com/matzehuels/tagcloud/pkg/frame"
	"github.com/matzehuels/tagcloud/pkg/motion"
)

func (e *Engine) schedule() {
	if e.tickID == 0 {
		e.tickID = e.sched.Request(e.loop)
	}
}

func (e *Engine) loop() {
	e.tickID = 0
	if e.destroyed || e.settings.Paused {
		return
	}
	e.Tick()
	e.schedule()
}

// Tick advances the cloud by one frame: expire click pulses, step the
// rotation model, rotate every tag and redraw. It does nothing while paused
// or after Destroy. The scheduled loop calls Tick once per frame; hosts
// without a scheduler may call it directly.
func (e *Engine) Tick() {
	if e.destroyed || e.settings.Paused {
		return
	}
	e.overlay.Expire(e.clock.Now())
	inc := e.model.Step(e.idle())
	motion.Rotate(e.store.Tags(), inc)
	e.draw()
}

// idle reports whether no input is driving velocity.
func (e *Engine) idle() bool {
	return !(e.pointer.down && e.pointer.dragged) && !e.decaying
}

func (e *Engine) startDecay() {
	e.cancelDecay()
	if !e.model.Moving() {
		return
	}
	e.decaying = true
	if !e.settings.Paused {
		e.decayID = e.sched.Request(e.decayLoop)
	}
}

func (e *Engine) decayLoop() {
	e.decayID = 0
	if e.destroyed || e.settings.Paused {
		return
	}
	if e.model.Decay() {
		e.decayID = e.sched.Request(e.decayLoop)
		return
	}
	e.decaying = false
	e.log.Debug("friction decay finished")
}

func (e *Engine) cancelDecay() {
	if e.decayID != 0 {
		e.sched.Cancel(e.decayID)
		e.decayID = 0
	}
	e.decaying = false
}

// pulseLoop reverts expired click pulses. It runs regardless of pause so a
// pulse never sticks on a stopped cloud.
func (e *Engine) pulseLoop() {
	e.pulseID = 0
	if e.destroyed {
		return
	}
	if e.overlay.Expire(e.clock.Now()) && e.settings.Paused {
		e.draw()
	}
	if e.overlay.Pending() {
		e.pulseID = e.sched.Request(e.pulseLoop)
	}
}

// Pause stops the animation loop and any friction decay. Rotation and
// velocity are kept exactly as they are.
func (e *Engine) Pause() error {
	if e.destroyed {
		return errDestroyed()
	}
	if e.settings.Paused {
		return nil
	}
	e.settings.Paused = true
	if e.tickID != 0 {
		e.sched.Cancel(e.tickID)
		e.tickID = 0
	}
	if e.decayID != 0 {
		// decaying stays set so Resume can pick the decay back up.
		e.sched.Cancel(e.decayID)
		e.decayID = 0
	}
	e.log.Debug("paused")
	e.events.Fire(events.Event{Name: events.Pause})
	return nil
}

// Resume restarts the animation loop from the state Pause left, and resumes
// friction decay if it was interrupted.
func (e *Engine) Resume() error {
	if e.destroyed {
		return errDestroyed()
	}
	if !e.settings.Paused {
		return nil
	}
	e.settings.Paused = false
	if e.decaying {
		if e.model.Moving() {
			e.decayID = e.sched.Request(e.decayLoop)
		} else {
			e.decaying = false
		}
	}
	e.schedule()
	e.log.Debug("resumed")
	e.events.Fire(events.Event{Name: events.Resume})
	return nil
}

// TogglePause pauses a running cloud or resumes a paused one.
func (e *Engine) TogglePause() error {
	if e.settings.Paused {
		return e.Resume()
	}
	return e.Pause()
}

// Destroy cancels every scheduled callback, detaches every input binding and
// removes every listener. Later calls are no-ops and mutating methods
// return a DESTROYED error.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	for _, id := range []*frame.ID{&e.tickID, &e.decayID, &e.pulseID, &e.resizeID, &e.moveID} {
		if *id != 0 {
			e.sched.Cancel(*id)
			*id = 0
		}
	}
	e.unbind()
	e.events.Reset()
	e.pendingMove = nil
	e.overlay.Clear()
	e.hover.Reset()
	e.decaying = false
	e.destroyed = true
	e.log.Debug("engine destroyed")
}
