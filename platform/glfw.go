// platform/glfw.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

import (
	"fmt"

	"github.com/mmp/spritebatch/log"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwPlatform implements the Platform interface using GLFW.
type glfwPlatform struct {
	window *glfw.Window
	config *Config
	lg     *log.Logger

	keyboard KeyboardState
	mouse    MouseState
	wheel    [2]float32
}

var glfwKeys = map[glfw.Key]Key{
	glfw.KeyEscape: KeyEscape,
	glfw.KeySpace:  KeySpace,
	glfw.KeyTab:    KeyTab,
	glfw.KeyEnter:  KeyEnter,
	glfw.KeyLeft:   KeyLeftArrow,
	glfw.KeyRight:  KeyRightArrow,
	glfw.KeyUp:     KeyUpArrow,
	glfw.KeyDown:   KeyDownArrow,
	glfw.KeyC:      KeyC,
	glfw.KeyS:      KeyS,
	glfw.KeyV:      KeyV,
}

// New returns a new instance of a Platform implemented with a window
// of the specified size open at the specified position on the screen.
// The window has a current OpenGL 4.1 core profile context.
func New(config *Config, lg *log.Logger) (Platform, error) {
	lg.Info("Starting GLFW initialization")
	err := glfw.Init()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}
	lg.Infof("GLFW: %s", glfw.GetVersionString())

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	vm := glfw.GetPrimaryMonitor().GetVideoMode()
	if config.InitialWindowSize[0] == 0 || config.InitialWindowSize[1] == 0 {
		config.InitialWindowSize = [2]int{vm.Width - 150, vm.Height - 150}
	}

	// If window position is out of bounds, create the window at (100, 100)
	if config.InitialWindowPosition[0] < 0 || config.InitialWindowPosition[1] < 0 ||
		config.InitialWindowPosition[0] > vm.Width || config.InitialWindowPosition[1] > vm.Height {
		config.InitialWindowPosition = [2]int{100, 100}
	}
	// Start with an invisible window so that we can position it first
	glfw.WindowHint(glfw.Visible, 0)
	if config.EnableMSAA {
		glfw.WindowHint(glfw.Samples, 4)
	}
	title := config.Title
	if title == "" {
		title = "spritebatch"
	}

	window, err := glfw.CreateWindow(config.InitialWindowSize[0], config.InitialWindowSize[1], title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	window.SetPos(config.InitialWindowPosition[0], config.InitialWindowPosition[1])
	window.Show()
	window.MakeContextCurrent()

	platform := &glfwPlatform{
		config: config,
		window: window,
		lg:     lg,
	}
	platform.installCallbacks()
	platform.EnableVSync(true)

	lg.Info("Finished GLFW initialization")

	return platform, nil
}

func (g *glfwPlatform) installCallbacks() {
	g.window.SetKeyCallback(g.keyChange)
	g.window.SetScrollCallback(g.mouseScrollChange)
	g.window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		g.lg.Debugf("framebuffer resized to %dx%d", width, height)
	})
}

func (g *glfwPlatform) keyChange(window *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	g.keyboard.Shift = mods&glfw.ModShift != 0
	g.keyboard.Control = mods&glfw.ModControl != 0
	if action != glfw.Press {
		return
	}
	if k, ok := glfwKeys[key]; ok {
		g.keyboard.Pressed[k] = true
	}
}

func (g *glfwPlatform) mouseScrollChange(window *glfw.Window, x, y float64) {
	g.wheel[0] += float32(x)
	g.wheel[1] += float32(y)
}

func (g *glfwPlatform) EnableVSync(sync bool) {
	if sync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
}

func (g *glfwPlatform) Dispose() {
	g.window.Destroy()
	glfw.Terminate()
}

func (g *glfwPlatform) ShouldStop() bool {
	return g.window.ShouldClose()
}

func (g *glfwPlatform) ProcessEvents() bool {
	g.keyboard.reset()
	g.wheel = [2]float32{}

	glfw.PollEvents()

	x, y := g.window.GetCursorPos()
	g.mouse.Pos = [2]float32{float32(x), float32(y)}
	for i, b := range []glfw.MouseButton{glfw.MouseButtonLeft, glfw.MouseButtonRight, glfw.MouseButtonMiddle} {
		g.mouse.Down[i] = g.window.GetMouseButton(b) == glfw.Press
	}
	g.mouse.Wheel = g.wheel

	for _, p := range g.keyboard.Pressed {
		if p {
			return true
		}
	}
	return g.wheel != [2]float32{}
}

func (g *glfwPlatform) DisplaySize() [2]float32 {
	w, h := g.window.GetSize()
	return [2]float32{float32(w), float32(h)}
}

func (g *glfwPlatform) FramebufferSize() [2]float32 {
	w, h := g.window.GetFramebufferSize()
	return [2]float32{float32(w), float32(h)}
}

func (g *glfwPlatform) WindowSize() [2]int {
	w, h := g.window.GetSize()
	return [2]int{w, h}
}

func (g *glfwPlatform) Time() float64 {
	return glfw.GetTime()
}

func (g *glfwPlatform) Keyboard() *KeyboardState {
	return &g.keyboard
}

func (g *glfwPlatform) Mouse() *MouseState {
	return &g.mouse
}

func (g *glfwPlatform) PostRender() {
	g.window.SwapBuffers()
}

func (g *glfwPlatform) SetWindowTitle(text string) {
	g.window.SetTitle(text)
}
