package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jspall/go-progressive-pathtracer/pkg/renderer"
	"github.com/jspall/go-progressive-pathtracer/pkg/scene"
)

func main() {
	sceneFlag := flag.String("scene", "default", "Scene: 'default', 'empty' or a path to a scene .json file")
	width := flag.Int("width", 400, "Image width in pixels")
	height := flag.Int("height", 225, "Image height in pixels")
	frames := flag.Int("frames", 16, "Number of progressive frames to accumulate")
	workers := flag.Int("workers", 0, "Number of render workers (0 = CPU count)")
	seed := flag.Int64("seed", 1, "Base random seed")
	output := flag.String("output", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Progressive Pathtracer")
		fmt.Println("Usage: pathtracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  default - Built-in demo scene with matte, mirror and glass spheres")
		fmt.Println("  empty   - Sky and sun only, no objects")
		fmt.Println("  <path>  - JSON scene description file")
		return
	}

	selectedScene, sceneName, err := createScene(*sceneFlag)
	if err != nil {
		fmt.Printf("Error loading scene: %v\n", err)
		os.Exit(1)
	}

	config := renderer.DefaultFrameConfig()
	config.NumWorkers = *workers
	config.Seed = *seed

	fmt.Printf("Rendering %q at %dx%d, %d frames...\n", sceneName, *width, *height, *frames)

	progressive := renderer.NewProgressiveRenderer(selectedScene, *width, *height, config, renderer.NewDefaultLogger())
	startTime := time.Now()
	for i := 0; i < *frames; i++ {
		progressive.RenderFrame()
	}
	fmt.Printf("Render completed in %v\n", time.Since(startTime))

	filename := *output
	if filename == "" {
		outputDir := filepath.Join("output", sceneName)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			fmt.Printf("Error creating output directory: %v\n", err)
			os.Exit(1)
		}
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
	}

	if err := savePNG(progressive, filename); err != nil {
		fmt.Printf("Error saving PNG: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render saved as %s\n", filename)
}

// createScene resolves a scene flag value to a scene plus a short name
// used for the output directory
func createScene(sceneType string) (*scene.Scene, string, error) {
	switch sceneType {
	case "default":
		return scene.NewDefaultScene(), "default", nil
	case "empty":
		return scene.NewEmptyScene(), "empty", nil
	case "":
		return nil, "", fmt.Errorf("no scene given")
	}

	if !strings.HasSuffix(sceneType, ".json") {
		return nil, "", fmt.Errorf("unknown scene type: %s", sceneType)
	}
	s, err := scene.LoadFile(sceneType)
	if err != nil {
		return nil, "", err
	}
	name := strings.TrimSuffix(filepath.Base(sceneType), ".json")
	return s, name, nil
}

func savePNG(progressive *renderer.ProgressiveRenderer, filename string) error {
	fb := renderer.NewImageFramebuffer(progressive.Width(), progressive.Height())
	progressive.WriteTo(fb)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, fb.Image())
}
