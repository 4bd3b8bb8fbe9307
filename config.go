package iso

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// CameraConfig controls camera zoom limits, smoothing, and input response.
type CameraConfig struct {
	MinZoom     float64 `yaml:"minZoom"`
	MaxZoom     float64 `yaml:"maxZoom"`
	InitialZoom float64 `yaml:"initialZoom"`
	// LerpFactor is the fraction of the remaining distance to the target
	// covered each tick, in (0, 1].
	LerpFactor float64 `yaml:"lerpFactor"`
	// ZoomStep is the target zoom change per wheel notch.
	ZoomStep float64 `yaml:"zoomStep"`
	// BaseMoveSpeed is the pan distance per tick at zoom 1, in world units.
	BaseMoveSpeed float64 `yaml:"baseMoveSpeed"`
}

// LODConfig maps camera zoom to a minimum sprite sort priority. At or above
// NearZoom every sprite is drawn; at or above FarZoom sprites need
// MidPriority; below FarZoom they need FarPriority.
type LODConfig struct {
	NearZoom    float64 `yaml:"nearZoom"`
	FarZoom     float64 `yaml:"farZoom"`
	MidPriority int     `yaml:"midPriority"`
	FarPriority int     `yaml:"farPriority"`
}

// SceneConfig configures a Scene. Start from DefaultSceneConfig and override
// fields, or load YAML with LoadSceneConfig.
type SceneConfig struct {
	WorldWidth  float64 `yaml:"worldWidth"`
	WorldHeight float64 `yaml:"worldHeight"`
	CellSize    float64 `yaml:"cellSize"`

	ViewportWidth  float64 `yaml:"viewportWidth"`
	ViewportHeight float64 `yaml:"viewportHeight"`
	// ViewportMargin grows the culling rectangle on every side so objects
	// do not pop in at the screen edges.
	ViewportMargin float64 `yaml:"viewportMargin"`

	MaxVisibleSprites     int  `yaml:"maxVisibleSprites"`
	SortingEnabled        bool `yaml:"sortingEnabled"`
	FrustumCullingEnabled bool `yaml:"frustumCullingEnabled"`
	LODEnabled            bool `yaml:"lodEnabled"`
	Debug                 bool `yaml:"debug"`

	QuadtreeCapacity int `yaml:"quadtreeCapacity"`
	QuadtreeMaxDepth int `yaml:"quadtreeMaxDepth"`

	Camera CameraConfig `yaml:"camera"`
	LOD    LODConfig    `yaml:"lod"`
}

// DefaultSceneConfig returns the default configuration.
func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		WorldWidth:            100,
		WorldHeight:           100,
		CellSize:              DefaultCellSize,
		ViewportWidth:         1280,
		ViewportHeight:        720,
		ViewportMargin:        5,
		MaxVisibleSprites:     1000,
		SortingEnabled:        true,
		FrustumCullingEnabled: true,
		LODEnabled:            true,
		QuadtreeCapacity:      DefaultQuadtreeCapacity,
		QuadtreeMaxDepth:      DefaultQuadtreeMaxDepth,
		Camera: CameraConfig{
			MinZoom:       0.1,
			MaxZoom:       5.0,
			InitialZoom:   1.0,
			LerpFactor:    0.15,
			ZoomStep:      0.1,
			BaseMoveSpeed: 0.5,
		},
		LOD: LODConfig{
			NearZoom:    1.0,
			FarZoom:     0.5,
			MidPriority: 0,
			FarPriority: 1,
		},
	}
}

var errInvalidConfig = errors.New("iso: invalid scene config")

// Validate checks the configuration for values the scene cannot run with.
func (c SceneConfig) Validate() error {
	switch {
	case !(c.CellSize > 0) || math.IsInf(c.CellSize, 0):
		return fmt.Errorf("%w: cellSize must be positive, got %v", errInvalidConfig, c.CellSize)
	case c.ViewportWidth < 0 || c.ViewportHeight < 0:
		return fmt.Errorf("%w: negative viewport size", errInvalidConfig)
	case c.ViewportMargin < 0:
		return fmt.Errorf("%w: negative viewport margin", errInvalidConfig)
	case c.MaxVisibleSprites < 0:
		return fmt.Errorf("%w: negative maxVisibleSprites", errInvalidConfig)
	case c.QuadtreeCapacity <= 0 || c.QuadtreeMaxDepth < 0:
		return fmt.Errorf("%w: quadtree capacity must be positive and depth non-negative", errInvalidConfig)
	}
	return c.Camera.validate()
}

func (c CameraConfig) validate() error {
	switch {
	case !(c.MinZoom > 0) || c.MaxZoom < c.MinZoom:
		return fmt.Errorf("%w: camera zoom range [%v, %v]", errInvalidConfig, c.MinZoom, c.MaxZoom)
	case !(c.LerpFactor > 0) || c.LerpFactor > 1:
		return fmt.Errorf("%w: camera lerpFactor must be in (0, 1], got %v", errInvalidConfig, c.LerpFactor)
	case c.ZoomStep < 0 || c.BaseMoveSpeed < 0:
		return fmt.Errorf("%w: negative camera speed", errInvalidConfig)
	}
	return nil
}

// LoadSceneConfig parses YAML over DefaultSceneConfig and validates the
// result. Fields absent from data keep their defaults.
func LoadSceneConfig(data []byte) (SceneConfig, error) {
	cfg := DefaultSceneConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SceneConfig{}, fmt.Errorf("iso: parse scene config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return SceneConfig{}, err
	}
	return cfg, nil
}
