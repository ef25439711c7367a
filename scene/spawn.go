package scene

import (
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shrine/components"
	"github.com/pthm-cable/shrine/config"
)

// PlaneSource describes how a plane's texture resolved.
type PlaneSource struct {
	Aspect   float64 // width / height of the decoded texture
	Fallback bool    // decoding failed
}

// Loaded returns a source for a decoded texture of the given size.
func Loaded(width, height int) PlaneSource {
	if width <= 0 || height <= 0 {
		return PlaneSource{Fallback: true}
	}
	return PlaneSource{Aspect: float64(width) / float64(height)}
}

// Failed is the source of a texture that could not be loaded.
var Failed = PlaneSource{Fallback: true}

// iconTint is the solid color of an icon whose texture failed.
var iconTint = [3]uint8{0xcc, 0xcc, 0xcc}

// floatingFor draws the oscillation parameters of one plane.
func (s *Scene) floatingFor(fc config.FloatConfig, baseline float64) components.Floating {
	f := components.Floating{
		BaselineY: baseline,
		Phase:     fc.Phase,
		PhaseStep: fc.PhaseStep,
		Amplitude: fc.Amplitude,
	}
	if fc.RandomPhase {
		f.Phase = s.rng.Float64() * 2 * math.Pi
	}
	if fc.PhaseStepJitter > 0 {
		f.PhaseStep += s.rng.Float64() * fc.PhaseStepJitter
	}
	if fc.AmplitudeJitter > 0 {
		f.Amplitude += s.rng.Float64() * fc.AmplitudeJitter
	}
	return f
}

// plane builds the quad and sprite of a single textured plane, or the
// solid fallback square.
func plane(pc config.PlaneConfig, texture string, src PlaneSource) (components.Quad, components.Sprite) {
	if src.Fallback {
		tint, err := config.ParseHexColor(pc.FallbackColor)
		if err != nil {
			slog.Warn("fallback_color_invalid", "plane", pc.Name, "color", pc.FallbackColor, "error", err)
			tint = [3]uint8{0xff, 0xff, 0xff}
		}
		return components.Quad{Width: pc.FallbackSize, Height: pc.FallbackSize},
			components.Sprite{Tint: tint, Opacity: 1, Order: pc.Order}
	}
	return components.Quad{Width: pc.Height * src.Aspect, Height: pc.Height},
		components.Sprite{Texture: texture, Tint: [3]uint8{0xff, 0xff, 0xff}, Opacity: 1, Order: pc.Order}
}

func positionOf(p [3]float64) components.Position {
	return components.Position{X: p[0], Y: p[1], Z: p[2]}
}

// AddSubject spawns the primary subject. It is clickable and, when its
// texture loaded, carries the aura.
func (s *Scene) AddSubject(src PlaneSource) ecs.Entity {
	if _, ok := s.Subject(); ok {
		slog.Warn("subject_already_added")
		return s.subject
	}
	pc := s.cfg.Subject

	texture := pc.Texture
	if v, ok := s.Expression.Current(); ok {
		texture = v.Texture
	}
	quad, sprite := plane(pc, texture, src)
	pos := positionOf(pc.Position)
	f := s.floatingFor(pc.Float, pos.Y+pc.BaselineShift)

	e := s.planeMapper.NewEntity(&pos, &quad, &sprite, &f)
	s.metaMap.Add(e, &components.Interactive{Name: pc.Name, Tag: components.TagSubject})
	s.Interaction.Set.Add(e)
	s.subject = e

	if !src.Fallback {
		s.Aura.Follow(e)
	}
	slog.Info("subject_added", "name", pc.Name, "fallback", src.Fallback, "width", quad.Width, "height", quad.Height)
	return e
}

// AddCompanion spawns the secondary floating plane.
func (s *Scene) AddCompanion(src PlaneSource) ecs.Entity {
	if !s.companion.IsZero() && s.world.Alive(s.companion) {
		slog.Warn("companion_already_added")
		return s.companion
	}
	pc := s.cfg.Companion

	quad, sprite := plane(pc, pc.Texture, src)
	pos := positionOf(pc.Position)
	f := s.floatingFor(pc.Float, pos.Y+pc.BaselineShift)

	s.companion = s.planeMapper.NewEntity(&pos, &quad, &sprite, &f)
	slog.Info("companion_added", "name", pc.Name, "fallback", src.Fallback)
	return s.companion
}

// AddEffects spawns the two rotated effect planes next to the companion.
// A failed texture adds nothing.
func (s *Scene) AddEffects(src PlaneSource) []ecs.Entity {
	if src.Fallback {
		slog.Warn("effects_skipped", "texture", s.cfg.Effects.Texture)
		return nil
	}
	if len(s.effects) > 0 {
		return s.effects
	}
	ec := s.cfg.Effects

	base := components.Position{Z: -0.2}
	if !s.companion.IsZero() && s.world.Alive(s.companion) {
		base = positionOf(s.cfg.Companion.Position)
	}
	base.X += ec.Offset[0]
	base.Y += ec.Offset[1]
	base.Z += ec.Offset[2]

	for i, sign := range []float64{1, -1} {
		pos := base
		pos.X += float64(i) * ec.Spacing
		quad := components.Quad{Width: ec.Height * src.Aspect, Height: ec.Height, RotationZ: sign * ec.Rotation}
		sprite := components.Sprite{Texture: ec.Texture, Tint: [3]uint8{0xff, 0xff, 0xff}, Opacity: ec.Opacity, Order: ec.Order}
		f := s.floatingFor(ec.Float, pos.Y)
		s.effects = append(s.effects, s.planeMapper.NewEntity(&pos, &quad, &sprite, &f))
	}
	slog.Info("effects_added", "count", len(s.effects))
	return s.effects
}

// AddCards spawns the card planes, each showing one cell of the atlas.
// A failed texture adds nothing.
func (s *Scene) AddCards(src PlaneSource) []ecs.Entity {
	if src.Fallback {
		slog.Warn("cards_skipped", "texture", s.cfg.Cards.Texture)
		return nil
	}
	if len(s.cards) > 0 {
		return s.cards
	}
	cc := s.cfg.Cards

	for i, p := range cc.Positions {
		pos := positionOf(p)
		quad := components.Quad{Width: cc.Size * cc.AspectRatio, Height: cc.Size}
		sprite := components.Sprite{
			Texture: cc.Texture,
			Tint:    [3]uint8{0xff, 0xff, 0xff},
			Opacity: 1,
			Order:   cc.Order,
		}
		if i < len(cc.Cells) {
			sprite.UV = [4]float64{cc.Cells[i][0], cc.Cells[i][1], 0.5 * cc.AspectRatio, 0.5}
		}
		f := s.floatingFor(cc.Float, pos.Y)
		s.cards = append(s.cards, s.planeMapper.NewEntity(&pos, &quad, &sprite, &f))
	}
	slog.Info("cards_added", "count", len(s.cards))
	return s.cards
}

// AddIcons spawns both icon rows at once and hands them to the sequencer.
// sources maps icon names to their texture result; a missing entry is a
// failed texture and gets a solid plane.
func (s *Scene) AddIcons(sources map[string]PlaneSource) (secondary, primary []ecs.Entity) {
	if s.Sequencer.Len() > 0 {
		slog.Warn("icons_already_added")
		return s.secondary, s.primary
	}
	ic := s.cfg.Icons

	spawnRow := func(row components.RowKind, icons []config.IconConfig) []ecs.Entity {
		out := make([]ecs.Entity, 0, len(icons))
		for slot, c := range icons {
			pos := positionOf(c.Position)
			quad := components.Quad{Width: ic.Size, Height: ic.Size}
			sprite := components.Sprite{Texture: c.Texture, Tint: [3]uint8{0xff, 0xff, 0xff}, Opacity: 1, Order: ic.Order}
			if src, ok := sources[c.Name]; !ok || src.Fallback {
				sprite.Texture = ""
				sprite.Tint = iconTint
			}
			icon := components.Icon{BaselineY: pos.Y, HasBaseline: true, Row: row, Slot: slot}
			meta := components.Interactive{Name: c.Name, URL: c.URL}

			e := s.iconMapper.NewEntity(&pos, &quad, &sprite, &icon, &meta)
			s.Interaction.Set.Add(e)
			out = append(out, e)
		}
		return out
	}

	s.secondary = spawnRow(components.RowSecondary, ic.Secondary)
	s.primary = spawnRow(components.RowPrimary, ic.Primary)
	s.Sequencer.SetRows(s.secondary, s.primary)

	slog.Info("icons_added", "primary", len(s.primary), "secondary", len(s.secondary))
	return s.secondary, s.primary
}

// Planes returns every spawned plane handle: companion, effects, subject,
// cards, then icons.
func (s *Scene) Planes() []ecs.Entity {
	var out []ecs.Entity
	if !s.companion.IsZero() {
		out = append(out, s.companion)
	}
	out = append(out, s.effects...)
	if !s.subject.IsZero() {
		out = append(out, s.subject)
	}
	out = append(out, s.cards...)
	out = append(out, s.secondary...)
	out = append(out, s.primary...)
	return out
}

// Companion returns the companion handle if present.
func (s *Scene) Companion() (ecs.Entity, bool) {
	if s.companion.IsZero() || !s.world.Alive(s.companion) {
		return s.companion, false
	}
	return s.companion, true
}
