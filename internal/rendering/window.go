package rendering

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Viewport-filling quad, interleaved position and texture
// coordinates. V is flipped so image row 0 lands at the top.
var quadVertices = []float32{
	-1, 1, 0, 0,
	-1, -1, 0, 1,
	1, -1, 1, 1,
	-1, 1, 0, 0,
	1, -1, 1, 1,
	1, 1, 1, 0,
}

// WindowConfig sizes the playback window. Width and Height are the
// canvas size in pixels; Scale multiplies them for the window itself.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
	Scale  int
}

// Window owns the GLFW window and the GL objects that draw the canvas
// as one textured quad. NewWindow, Run and the key handler all run on
// the main thread; only the Surface crosses goroutines.
type Window struct {
	window  *glfw.Window
	surface *Surface
	handler func(key glfw.Key)

	program uint32
	vao     uint32
	vbo     uint32
	texture uint32
	width   int
	height  int
	shown   uint64
}

// NewWindow initializes GLFW and GL, compiles the shader programs and
// prepares the canvas texture. The caller must have locked the OS
// thread.
func NewWindow(cfg WindowConfig, surface *Surface) (*Window, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Scale < 1 {
		cfg.Scale = 1
	}
	if cfg.Title == "" {
		cfg.Title = "gifplay"
	}

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	handle, err := glfw.CreateWindow(cfg.Width*cfg.Scale, cfg.Height*cfg.Scale, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize gl: %w", err)
	}
	if err := LoadShaders(); err != nil {
		glfw.Terminate()
		return nil, err
	}
	if err := CompileShaders(); err != nil {
		glfw.Terminate()
		return nil, err
	}
	program, ok := Program("frame")
	if !ok {
		glfw.Terminate()
		return nil, fmt.Errorf("frame program missing after compile")
	}

	window := &Window{
		window:  handle,
		surface: surface,
		program: program,
		width:   cfg.Width,
		height:  cfg.Height,
	}
	window.setupQuad()
	window.setupTexture()

	fbWidth, fbHeight := handle.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))

	handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		if window.handler != nil {
			window.handler(key)
		}
	})
	return window, nil
}

// SetKeyHandler registers the callback for key presses and repeats.
func (window *Window) SetKeyHandler(handler func(key glfw.Key)) {
	window.handler = handler
}

// RequestClose makes Run return after the current iteration.
func (window *Window) RequestClose() {
	window.window.SetShouldClose(true)
}

// Run drives the render loop until the window closes, then releases
// the GL objects and terminates GLFW.
func (window *Window) Run() {
	defer glfw.Terminate()
	defer gl.DeleteTextures(1, &window.texture)
	defer gl.DeleteBuffers(1, &window.vbo)
	defer gl.DeleteVertexArrays(1, &window.vao)

	gl.UseProgram(window.program)
	gl.Uniform1i(gl.GetUniformLocation(window.program, gl.Str("frame\x00")), 0)
	gl.ClearColor(0, 0, 0, 1)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	for !window.window.ShouldClose() {
		if img, seq := window.surface.Latest(); img != nil && seq != window.shown {
			window.upload(img)
			window.shown = seq
		}

		gl.Clear(gl.COLOR_BUFFER_BIT)
		UseProgram("frame")
		gl.BindVertexArray(window.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)

		window.window.SwapBuffers()
		glfw.PollEvents()
	}
}

func (window *Window) setupQuad() {
	gl.GenVertexArrays(1, &window.vao)
	gl.BindVertexArray(window.vao)

	gl.GenBuffers(1, &window.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, window.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(2*4))
	gl.EnableVertexAttribArray(1)
}

func (window *Window) setupTexture() {
	gl.GenTextures(1, &window.texture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, window.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(window.width), int32(window.height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
}

func (window *Window) upload(img *image.RGBA) {
	bounds := img.Bounds()
	if bounds.Dx() != window.width || bounds.Dy() != window.height {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, window.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(window.width), int32(window.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
}
