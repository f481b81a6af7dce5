package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/jspall/go-progressive-pathtracer/pkg/core"
	"github.com/jspall/go-progressive-pathtracer/pkg/geometry"
	"github.com/jspall/go-progressive-pathtracer/pkg/renderer"
	"github.com/jspall/go-progressive-pathtracer/pkg/scene"
)

const (
	moveStep   = 0.1 // World units per update while a move key is held
	rotateStep = 3.0 // Degrees per update while a rotate key is held
)

// game drives the render loop: every Update renders one full frame
// into the accumulation buffer, then applies any camera input. A
// camera change discards the accumulation, so the view goes noisy and
// progressively cleans up again once the keys are released.
type game struct {
	progressive *renderer.ProgressiveRenderer
	home        scene.CameraConfig // Placement the R key returns to
	fb          *renderer.ImageFramebuffer
	screen      *ebiten.Image
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.progressive.RenderFrame()

	if cfg, changed := g.applyInput(g.progressive.CameraConfig()); changed {
		g.progressive.SetCamera(cfg)
	}
	return nil
}

// applyInput moves the camera along its own axes and turns it with the
// arrow keys
func (g *game) applyInput(cfg scene.CameraConfig) (scene.CameraConfig, bool) {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		return g.home, true
	}

	orient := geometry.NewTransform(cfg.Position, core.NewVec3(1, 1, 1), cfg.Angles)
	forward := orient.NormalToWorld(core.NewVec3(0, 0, 1))
	right := orient.NormalToWorld(core.NewVec3(1, 0, 0))

	changed := false
	move := func(dir core.Vec3, sign float64) {
		cfg.Position = cfg.Position.Add(dir.Multiply(sign * moveStep))
		changed = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		move(forward, 1)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		move(forward, -1)
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		move(right, 1)
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		move(right, -1)
	}

	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		cfg.Angles.Y -= rotateStep
		changed = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		cfg.Angles.Y += rotateStep
		changed = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		cfg.Angles.X -= rotateStep
		changed = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		cfg.Angles.X += rotateStep
		changed = true
	}
	return cfg, changed
}

func (g *game) Draw(screen *ebiten.Image) {
	g.progressive.WriteTo(g.fb)
	g.screen.WritePixels(g.fb.Image().Pix)
	screen.DrawImage(g.screen, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.fb.Width(), g.fb.Height()
}

func main() {
	sceneFlag := flag.String("scene", "default", "Scene: 'default', 'empty' or a path to a scene .json file")
	width := flag.Int("width", 320, "Render width in pixels")
	height := flag.Int("height", 180, "Render height in pixels")
	workers := flag.Int("workers", 0, "Number of render workers (0 = CPU count)")
	flag.Parse()

	selectedScene, err := loadScene(*sceneFlag)
	if err != nil {
		fmt.Printf("Error loading scene: %v\n", err)
		os.Exit(1)
	}

	config := renderer.DefaultFrameConfig()
	config.NumWorkers = *workers

	progressive := renderer.NewProgressiveRenderer(selectedScene, *width, *height, config, renderer.NewDefaultLogger())
	g := &game{
		progressive: progressive,
		home:        selectedScene.Camera,
		fb:          renderer.NewImageFramebuffer(*width, *height),
		screen:      ebiten.NewImage(*width, *height),
	}

	ebiten.SetWindowTitle("Progressive Pathtracer")
	ebiten.SetWindowSize(*width*3, *height*3)
	fmt.Println("WASD to move, arrows to look, R to reset the camera, Escape to quit")
	if err := ebiten.RunGame(g); err != nil {
		fmt.Printf("Viewer error: %v\n", err)
		os.Exit(1)
	}
}

func loadScene(name string) (*scene.Scene, error) {
	switch name {
	case "default":
		return scene.NewDefaultScene(), nil
	case "empty":
		return scene.NewEmptyScene(), nil
	}
	return scene.LoadFile(name)
}
