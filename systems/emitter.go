package systems

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// EmitterAdapter is the only coupling between the tick and the flame
// engine: it parks the emitter near a target and steps the engine.
// A nil *EmitterAdapter is valid and does nothing.
type EmitterAdapter struct {
	engine *FlameEngine
	offset r3.Vec
}

// NewEmitterAdapter loads a flame definition and builds the engine.
// Any error means the adapter is absent for the session.
func NewEmitterAdapter(definitionPath string, offset r3.Vec) (*EmitterAdapter, error) {
	def, err := LoadFlameDefinition(definitionPath)
	if err != nil {
		return nil, err
	}
	engine, err := NewFlameEngine(def)
	if err != nil {
		return nil, err
	}
	return NewEmitterAdapterWithEngine(engine, offset), nil
}

// NewEmitterAdapterWithEngine wraps an existing engine.
func NewEmitterAdapterWithEngine(engine *FlameEngine, offset r3.Vec) *EmitterAdapter {
	return &EmitterAdapter{engine: engine, offset: offset}
}

// PositionEmitterNear places the emitter at target+offset.
func (a *EmitterAdapter) PositionEmitterNear(target r3.Vec) {
	if a == nil {
		return
	}
	a.engine.SetAnchor(r3.Add(target, a.offset))
}

// Advance runs one engine step.
func (a *EmitterAdapter) Advance() {
	if a == nil {
		return
	}
	a.engine.Step()
}

// Engine returns the wrapped engine, or nil.
func (a *EmitterAdapter) Engine() *FlameEngine {
	if a == nil {
		return nil
	}
	return a.engine
}
