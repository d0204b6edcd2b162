package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/rigid2d/common"
	"github.com/milk9111/rigid2d/physics"
	"github.com/milk9111/rigid2d/quadtree"
)

var ErrUnknownBroadphase = errors.New("system: unknown broadphase")

type BroadphaseKind string

const (
	BroadphaseNaive    BroadphaseKind = "naive"
	BroadphaseQuadtree BroadphaseKind = "quadtree"
)

// ParseBroadphase accepts the names used in scene files and on the command
// line. An empty name selects the naive scan.
func ParseBroadphase(name string) (BroadphaseKind, error) {
	switch kind := BroadphaseKind(strings.ToLower(strings.TrimSpace(name))); kind {
	case "", BroadphaseNaive:
		return BroadphaseNaive, nil
	case BroadphaseQuadtree:
		return BroadphaseQuadtree, nil
	default:
		return "", fmt.Errorf("%q: %w", name, ErrUnknownBroadphase)
	}
}

// QuadtreeSettings describes the square indexed by the quadtree broad
// phase. Origin is its lower-left corner.
type QuadtreeSettings struct {
	Origin         cp.Vector
	Width          float64
	MaxDepth       uint32
	DepthLimited   bool
	MaxLeafObjects int
}

func (s QuadtreeSettings) options() []quadtree.Option {
	var opts []quadtree.Option
	if s.DepthLimited {
		opts = append(opts, quadtree.WithMaxDepth(s.MaxDepth))
	}
	if s.MaxLeafObjects > 0 {
		opts = append(opts, quadtree.WithMaxLeafObjects(s.MaxLeafObjects))
	}
	return opts
}

type Settings struct {
	FixedDT    float64
	Down       cp.Vector
	Broadphase BroadphaseKind
	Quadtree   QuadtreeSettings
}

func DefaultSettings() Settings {
	return Settings{
		FixedDT:    common.FixedDT,
		Down:       physics.DefaultDown,
		Broadphase: BroadphaseNaive,
		Quadtree: QuadtreeSettings{
			Width: common.BaseWidth,
		},
	}
}

// WithDefaults fills every zero field from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	def := DefaultSettings()
	if s.FixedDT <= 0 {
		s.FixedDT = def.FixedDT
	}
	if s.Down.LengthSq() < physics.Epsilon {
		s.Down = def.Down
	}
	if s.Broadphase == "" {
		s.Broadphase = def.Broadphase
	}
	if s.Quadtree.Width <= 0 {
		s.Quadtree.Width = def.Quadtree.Width
	}
	return s
}
