package scene_fixup

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-dungeon/engine/config"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/light"
	"github.com/Carmen-Shannon/oxy-dungeon/engine/scene"
	"go.uber.org/zap"
)

// TorchPrefix marks the torch meshes that must not cast shadows.
const TorchPrefix = "TorchCylinder"

// Report counts what a fixup pass changed.
type Report struct {
	ShadowsEnabled int
	Torches        int
	EmissiveScaled int
}

// Fixup restores lighting and material properties the scene exporter drops, and applies the
// configured scene-wide lighting.
type Fixup interface {
	// Run applies every fixup to the scene. It is meant to run exactly once per scene load, since
	// emissive scaling compounds.
	//
	// Parameters:
	//   - sc: the fully loaded scene
	//   - cfg: the applied configuration
	//
	// Returns:
	//   - Report: how many lights, torches and materials were changed
	Run(sc scene.Scene, cfg config.Config) Report
}

type fixup struct {
	logger *zap.Logger
}

var _ Fixup = &fixup{}

// NewFixup creates a Fixup with the provided options applied.
func NewFixup(options ...FixupBuilderOption) Fixup {
	f := &fixup{logger: zap.NewNop()}
	for _, opt := range options {
		opt(f)
	}
	return f
}

func (f *fixup) Run(sc scene.Scene, cfg config.Config) Report {
	sc.SetEnvironment(scene.Environment{
		AmbientColor:            cfg.AmbientColor,
		AmbientBrightness:       cfg.AmbientBrightness,
		ClearColor:              cfg.ClearColor,
		PointLightShadowMapSize: light.PointLightShadowMapResolution,
	})

	return Report{
		EmissiveScaled: f.scaleEmissive(sc, cfg.EmissiveScale),
		ShadowsEnabled: f.enableShadows(sc),
		Torches:        f.excludeTorches(sc),
	}
}

func (f *fixup) scaleEmissive(sc scene.Scene, scale float32) int {
	count := 0
	for _, m := range sc.Materials() {
		if !m.IsEmissive() {
			continue
		}
		before := m.Emissive()
		m.SetEmissive(before.Mul(scale))
		f.logger.Info("scaling emissive",
			zap.String("material", m.Name()),
			zap.Float32s("emissive", before[:]),
			zap.Float32("factor", scale),
		)
		count++
	}
	return count
}

// enableShadows turns on shadows for every light. Imported lights never carry the flag.
func (f *fixup) enableShadows(sc scene.Scene) int {
	count := 0
	for _, l := range sc.Lights() {
		if !l.CastsShadows() {
			l.SetCastsShadows(true)
			count++
		}
	}
	f.logger.Info("enabled shadows for lights", zap.Int("count", count))
	return count
}

func (f *fixup) excludeTorches(sc scene.Scene) int {
	var torches []scene.NodeID
	sc.Walk(func(n scene.Node) bool {
		if !n.NotShadowCaster && strings.HasPrefix(n.Name, TorchPrefix) {
			torches = append(torches, n.ID)
		}
		return true
	})
	for _, id := range torches {
		sc.SetNotShadowCaster(id, true)
	}
	f.logger.Info("disabled shadows for torches", zap.Int("count", len(torches)))
	return len(torches)
}
