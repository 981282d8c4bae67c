package reko

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState owns the GLFW window shared by the renderer and input code.
// GLFW requires everything to happen on one OS thread, so creation locks
// the calling goroutine to it.
type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

// createWindowState creates the shared window. legacyGL selects an OpenGL
// 4.1 core context for the fallback backend; the primary backend wants no
// client API at all.
func createWindowState(width, height int, title string, legacyGL bool) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("window: glfw init: %w", err)
	}

	glfw.DefaultWindowHints()
	if legacyGL {
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	} else {
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	}
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("window: create: %w", err)
	}
	if legacyGL {
		win.MakeContextCurrent()
		glfw.SwapInterval(1)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  width,
		WindowHeight: height,
		windowTitle:  title,
	}, nil
}

func (w *WindowState) Window() *glfw.Window { return w.windowGlfw }

func (w *WindowState) Size() (int, int) {
	return w.WindowWidth, w.WindowHeight
}

func (w *WindowState) destroy() {
	if w.windowGlfw != nil {
		w.windowGlfw.Destroy()
		w.windowGlfw = nil
	}
}
