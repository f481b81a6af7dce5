package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jspall/go-progressive-pathtracer/pkg/core"
	"github.com/jspall/go-progressive-pathtracer/pkg/geometry"
	"github.com/jspall/go-progressive-pathtracer/pkg/material"
)

// Config is the JSON scene file layout. Angles are degrees in files,
// colors are linear RGB.
type Config struct {
	Camera      CameraCfg   `json:"camera"`
	Environment EnvCfg      `json:"environment"`
	Spheres     []SphereCfg `json:"spheres,omitempty"`
	Planes      []PlaneCfg  `json:"planes,omitempty"`
}

// Vec3Cfg is a [x, y, z] triple in JSON
type Vec3Cfg [3]float64

func (v Vec3Cfg) vec() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// CameraCfg mirrors CameraConfig for JSON files
type CameraCfg struct {
	Position Vec3Cfg `json:"position"`
	Angles   Vec3Cfg `json:"angles,omitempty"`
	FOV      float64 `json:"fov,omitempty"`
}

// EnvCfg mirrors Environment for JSON files
type EnvCfg struct {
	Ground    Vec3Cfg `json:"ground"`
	Horizon   Vec3Cfg `json:"horizon"`
	Sky       Vec3Cfg `json:"sky"`
	SunColor  Vec3Cfg `json:"sunColor"`
	SunDir    Vec3Cfg `json:"sunDirection"`
	SunRadius float64 `json:"sunRadius"`
}

// MaterialCfg mirrors material.PhysProp for JSON files. All fields are
// explicit; the loader validates their ranges.
type MaterialCfg struct {
	IOR       float64 `json:"ior"`
	Opacity   float64 `json:"opacity"`
	Roughness float64 `json:"roughness"`
	Color     Vec3Cfg `json:"color"`
	Emission  Vec3Cfg `json:"emission,omitempty"`
}

// SphereCfg places one sphere
type SphereCfg struct {
	Position Vec3Cfg     `json:"position"`
	Scale    *Vec3Cfg    `json:"scale,omitempty"`
	Angles   Vec3Cfg     `json:"angles,omitempty"`
	Radius   float64     `json:"radius"`
	Material MaterialCfg `json:"material"`
}

// PlaneCfg places one bounded plane
type PlaneCfg struct {
	Position Vec3Cfg     `json:"position"`
	Scale    *Vec3Cfg    `json:"scale,omitempty"`
	Angles   Vec3Cfg     `json:"angles,omitempty"`
	Material MaterialCfg `json:"material"`
}

func (m MaterialCfg) build() (material.PhysProp, error) {
	if m.IOR <= 0 {
		return material.PhysProp{}, fmt.Errorf("ior must be > 0, got %v", m.IOR)
	}
	if m.Opacity < 0 || m.Opacity > 1 {
		return material.PhysProp{}, fmt.Errorf("opacity must be in [0,1], got %v", m.Opacity)
	}
	if m.Roughness < 0 || m.Roughness > 1 {
		return material.PhysProp{}, fmt.Errorf("roughness must be in [0,1], got %v", m.Roughness)
	}
	return material.PhysProp{
		IOR:       m.IOR,
		Opacity:   m.Opacity,
		Roughness: m.Roughness,
		Color:     m.Color.vec(),
		Emission:  m.Emission.vec(),
	}, nil
}

func scaleOrUnit(s *Vec3Cfg) core.Vec3 {
	if s == nil {
		return core.NewVec3(1, 1, 1)
	}
	return s.vec()
}

// LoadFile reads a JSON scene file from disk
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene file %s: %w", path, err)
	}
	return s, nil
}

// Parse builds a Scene from JSON scene configuration
func Parse(data []byte) (*Scene, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing scene config: %w", err)
	}

	s := &Scene{
		Env: Environment{
			GroundColor:  cfg.Environment.Ground.vec(),
			HorizonColor: cfg.Environment.Horizon.vec(),
			SkyColor:     cfg.Environment.Sky.vec(),
			SunColor:     cfg.Environment.SunColor.vec(),
			SunDirection: cfg.Environment.SunDir.vec().Normalize(),
			SunRadius:    cfg.Environment.SunRadius,
		},
		Camera: CameraConfig{
			Position: cfg.Camera.Position.vec(),
			Angles:   cfg.Camera.Angles.vec(),
			FOV:      cfg.Camera.FOV,
		},
	}
	if s.Camera.FOV <= 0 {
		s.Camera.FOV = 90
	}
	if s.Env.SunRadius <= 0 || s.Env.SunRadius >= 1 {
		return nil, fmt.Errorf("sunRadius must be in (0,1), got %v", cfg.Environment.SunRadius)
	}

	for i, sc := range cfg.Spheres {
		if sc.Radius <= 0 {
			return nil, fmt.Errorf("sphere %d: radius must be > 0, got %v", i, sc.Radius)
		}
		mat, err := sc.Material.build()
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		s.Objects = append(s.Objects, &geometry.Sphere{
			Transform: geometry.NewTransform(sc.Position.vec(), scaleOrUnit(sc.Scale), sc.Angles.vec()),
			Radius:    sc.Radius,
			Material:  mat,
		})
	}

	for i, pc := range cfg.Planes {
		mat, err := pc.Material.build()
		if err != nil {
			return nil, fmt.Errorf("plane %d: %w", i, err)
		}
		s.Objects = append(s.Objects, geometry.NewPlane(
			geometry.NewTransform(pc.Position.vec(), scaleOrUnit(pc.Scale), pc.Angles.vec()),
			mat,
		))
	}

	return s, nil
}
