// platform/platform.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

// Platform is the interface that abstracts the window and the OpenGL
// context that the sprite batch draws into.
type Platform interface {
	// ProcessEvents handles all pending window events. Returns true if
	// there were any events and false otherwise.
	ProcessEvents() bool
	// PostRender performs the buffer swap.
	PostRender()
	// Dispose is called when the application is shutting down and is when
	// resources are be freed.
	Dispose()
	// ShouldStop returns true if the window is to be closed.
	ShouldStop() bool
	// SetWindowTitle sets the title of the application window.
	SetWindowTitle(text string)
	// EnableVSync specifies whether v-sync should be used when rendering;
	// v-sync is on by default and should only be disabled for benchmarking.
	EnableVSync(sync bool)
	// DisplaySize returns the dimension of the display.
	DisplaySize() [2]float32
	// FramebufferSize returns the dimension of the framebuffer.
	FramebufferSize() [2]float32
	// WindowSize returns the size of the window.
	WindowSize() [2]int
	// Time returns the current time in seconds since the platform was
	// created.
	Time() float64
	// Keyboard returns the keys that were pressed since the last call
	// to ProcessEvents.
	Keyboard() *KeyboardState
	// Mouse returns the current mouse state.
	Mouse() *MouseState
}

type Config struct {
	InitialWindowSize     [2]int
	InitialWindowPosition [2]int

	EnableMSAA bool
	Title      string
}

type Key int

const (
	KeyEscape Key = iota
	KeySpace
	KeyTab
	KeyEnter
	KeyLeftArrow
	KeyRightArrow
	KeyUpArrow
	KeyDownArrow
	KeyC
	KeyS
	KeyV
	KeyCount
)

type KeyboardState struct {
	Pressed [KeyCount]bool
	Shift   bool
	Control bool
}

func (k *KeyboardState) WasPressed(key Key) bool {
	return key >= 0 && key < KeyCount && k.Pressed[key]
}

func (k *KeyboardState) reset() {
	clear(k.Pressed[:])
}

type MouseState struct {
	Pos   [2]float32
	Down  [3]bool
	Wheel [2]float32
}
