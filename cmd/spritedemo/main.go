// cmd/spritedemo/main.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// spritedemo opens a window and draws a few thousand bouncing sprites,
// some shapes, and a text overlay each frame through a SpriteBatch. It is
// used to exercise the batcher against a real GL device and to record
// frame captures for offline analysis with capdump.

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/mmp/spritebatch/font"
	"github.com/mmp/spritebatch/log"
	"github.com/mmp/spritebatch/platform"
	"github.com/mmp/spritebatch/renderer"
	"github.com/mmp/spritebatch/renderer/ogl"

	"github.com/apenwarr/fixconsole"
	"github.com/goforj/godump"
)

var (
	configFile   = flag.String("config", "", "configuration file (JSON, or TOML with a .toml extension)")
	logLevel     = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir       = flag.String("logdir", "", "log file directory")
	watchConfig  = flag.Bool("watch", false, "reload the configuration file when it changes")
	dumpConfig   = flag.Bool("dumpconfig", false, "print the configuration and exit")
	captureDir   = flag.String("capturedir", ".", "directory for frame captures")
	captureFrame = flag.Int("captureframe", -1, "capture the given frame number")
	maxFrames    = flag.Int("frames", 0, "exit after rendering this many frames (0 for no limit)")
	noVSync      = flag.Bool("novsync", false, "disable v-sync")
)

func init() {
	// OpenGL and friends require that all calls be made from the primary
	// application thread, while by default, go allows the main thread to
	// run on different hardware threads over the course of
	// execution. Therefore, we must lock the main thread at startup time.
	runtime.LockOSThread()
}

func main() {
	flag.Parse()

	if err := fixconsole.FixConsoleIfNeeded(); err != nil {
		fmt.Printf("FixConsole: %v\n", err)
	}

	// Initialize the logging system first and foremost.
	lg := log.New(*logLevel, *logDir)
	defer lg.CatchAndReportCrash()

	path := *configFile
	if path == "" {
		path = defaultConfigPath(lg)
	}
	config, err := LoadOrMakeDefaultConfig(path, lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if *dumpConfig {
		godump.Dump(config)
		return
	}

	if err := run(config, path, lg); err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type demo struct {
	config *Config
	lg     *log.Logger

	plat   platform.Platform
	device *ogl.Device
	sb     *renderer.SpriteBatch
	cache  *renderer.TextureCache
	assets *Assets
	font   *font.Font
	camera *renderer.OrthoCamera
	scene  *Scene

	vsync bool
	// Capture the next frame rendered.
	captureNext bool
}

func run(config *Config, path string, lg *log.Logger) error {
	// Decode everything before creating the window; it doesn't need the
	// GL context.
	assets, err := LoadAssets(config, lg)
	if err != nil {
		return err
	}

	plat, err := platform.New(&config.Window, lg)
	if err != nil {
		return err
	}
	defer plat.Dispose()

	device, err := ogl.NewDevice(lg)
	if err != nil {
		return err
	}
	defer device.Dispose()

	if err := assets.Upload(device); err != nil {
		return err
	}

	cache, err := renderer.NewTextureCache(device, config.TextureLRU, lg)
	if err != nil {
		return err
	}
	defer cache.Purge()

	sb, err := renderer.New(device, device.WhiteTexture(), config.Renderer, lg)
	if err != nil {
		return err
	}

	size := plat.DisplaySize()
	d := &demo{
		config: config,
		lg:     lg,
		plat:   plat,
		device: device,
		sb:     sb,
		cache:  cache,
		assets: assets,
		font:   assets.Fonts[len(assets.Fonts)-1],
		camera: renderer.NewOrthoCamera(size[0], size[1]),
		scene:  NewScene(size, assets.SpriteImages(), config.Sprites, config.SpriteScale, uint64(time.Now().UnixNano())),
		vsync:  !*noVSync,
	}
	// applyConfig may replace the batch.
	defer func() { d.sb.Dispose() }()
	plat.EnableVSync(d.vsync)

	var updates chan *Config
	if *watchConfig {
		w, err := NewConfigWatcher(path, lg)
		if err != nil {
			lg.Warnf("%s: unable to watch: %v", path, err)
		} else {
			defer w.Close()
			updates = w.Updates
		}
	}

	lg.Info("Starting main loop")
	lastTime := plat.Time()
	lastTitle := lastTime
	frames := 0
	for frame := 0; *maxFrames == 0 || frame < *maxFrames; frame++ {
		plat.ProcessEvents()
		if plat.ShouldStop() || plat.Keyboard().WasPressed(platform.KeyEscape) {
			break
		}
		d.handleKeys()

		select {
		case c := <-updates:
			if err := d.applyConfig(c); err != nil {
				lg.Errorf("applying new config: %v", err)
			}
		default:
		}

		now := plat.Time()
		d.scene.Update(float32(now - lastTime))
		lastTime = now

		if err := d.render(frame == *captureFrame || d.captureNext); err != nil {
			return err
		}
		d.captureNext = false
		plat.PostRender()

		frames++
		if now-lastTitle >= 1 {
			fps := float64(frames) / (now - lastTitle)
			plat.SetWindowTitle(fmt.Sprintf("spritedemo: %.1f fps", fps))
			stats := d.sb.Stats()
			lg.Debug("frame", "fps", fps, "stats", stats)
			frames, lastTitle = 0, now
		}
	}

	lg.Info("Exiting main loop", "total", d.sb.TotalStats(), "texture_memory", device.TextureMemory())
	return nil
}

func (d *demo) handleKeys() {
	kb := d.plat.Keyboard()
	if kb.WasPressed(platform.KeySpace) {
		d.config.Pass.Sort = (d.config.Pass.Sort + 1) % (renderer.SortImmediate + 1)
		d.lg.Infof("sort mode %s", d.config.Pass.Sort)
	}
	if kb.WasPressed(platform.KeyS) {
		d.config.ShowShapes = !d.config.ShowShapes
	}
	if kb.WasPressed(platform.KeyV) {
		d.vsync = !d.vsync
		d.plat.EnableVSync(d.vsync)
	}
	if kb.WasPressed(platform.KeyC) {
		d.captureNext = true
	}
	if kb.WasPressed(platform.KeyUpArrow) {
		d.scene.Resize(d.assets.SpriteImages(), 2*max(d.scene.SpriteCount(), 1), d.config.SpriteScale)
	}
	if kb.WasPressed(platform.KeyDownArrow) {
		d.scene.Resize(d.assets.SpriteImages(), d.scene.SpriteCount()/2, d.config.SpriteScale)
	}
}

// applyConfig switches to a reloaded configuration. The window settings
// only apply at startup.
func (d *demo) applyConfig(c *Config) error {
	if c.Renderer != d.config.Renderer {
		sb, err := renderer.New(d.device, d.device.WhiteTexture(), c.Renderer, d.lg)
		if err != nil {
			return err
		}
		d.sb.Dispose()
		d.sb = sb
	}
	d.scene.Resize(d.assets.SpriteImages(), c.Sprites, c.SpriteScale)
	c.Window = d.config.Window
	d.config = c
	return nil
}

func (d *demo) render(capture bool) error {
	// Textures evicted while the frame was being recorded are only
	// destroyed once its passes have ended.
	defer d.cache.ReleaseEvicted()

	fb := d.plat.FramebufferSize()
	size := d.plat.DisplaySize()
	d.device.Viewport(0, 0, int(fb[0]), int(fb[1]))
	bg := d.config.Background
	d.device.Clear(renderer.RGBA{R: bg[0], G: bg[1], B: bg[2], A: 1})

	d.camera.Width, d.camera.Height = size[0], size[1]
	d.scene.Size = size

	pass := d.config.Pass
	pass.Camera = d.camera
	pass.Effect = d.device.Effect()

	if err := d.drawFrame(d.sb, pass); err != nil {
		return err
	}

	if capture {
		d.capture(pass)
	}
	return nil
}

func (d *demo) drawFrame(sb *renderer.SpriteBatch, pass renderer.PassState) error {
	textures := func(name string) (renderer.Texture, error) { return d.assets.Texture(d.cache, name) }
	var overlay string
	if d.config.ShowStats {
		stats := sb.Stats()
		overlay = fmt.Sprintf("%d sprites  sort %s  %d draw calls  %d quads  %d dropped",
			d.scene.SpriteCount(), pass.Sort, stats.DrawCalls, stats.Quads, d.scene.Dropped)
	}
	return renderFrame(sb, pass, d.scene, textures, d.font, overlay, d.config.ShowShapes, d.lg)
}

// renderFrame draws one frame of the scene in a single pass.
func renderFrame(sb *renderer.SpriteBatch, pass renderer.PassState, scene *Scene, textures Textures,
	f renderer.Font, overlay string, shapes bool, lg *log.Logger) error {
	if err := sb.Begin(pass); err != nil {
		return err
	}
	if err := scene.Draw(sb, textures, shapes); err != nil {
		sb.End()
		return err
	}
	if overlay != "" {
		if err := scene.DrawOverlay(sb, f, overlay); err != nil {
			lg.Warnf("%v", err)
		}
	}
	return sb.End()
}

// capture records the frame through a CommandBuffer and saves it.
func (d *demo) capture(pass renderer.PassState) {
	cb := renderer.GetCommandBuffer()
	defer renderer.ReturnCommandBuffer(cb)

	sb, err := renderer.New(cb, d.device.WhiteTexture(), d.config.Renderer, d.lg)
	if err != nil {
		d.lg.Errorf("capture: %v", err)
		return
	}
	pass.Effect = nil
	err = d.drawFrame(sb, pass)
	sb.Dispose()
	if err != nil {
		d.lg.Errorf("capture: %v", err)
		return
	}

	fn := filepath.Join(*captureDir, "capture-"+time.Now().Format("20060102-150405")+".spc")
	note := fmt.Sprintf("%d sprites, %s", d.scene.SpriteCount(), pass.Sort)
	if err := renderer.SaveCaptureFile(fn, cb, note); err != nil {
		d.lg.Errorf("%s: %v", fn, err)
		return
	}
	d.lg.Infof("%s: saved frame capture (%d words)", fn, len(cb.Buf))
	fmt.Printf("Saved frame capture to %s\n", fn)
}
