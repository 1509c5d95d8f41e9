package window

import (
	"fmt"
	"runtime"
	"time"
)

// Window is the host window for interactive demos: a title bar, keyboard events and a frame
// loop. Nothing is drawn into it.
type Window interface {
	// SetUpdateCallback sets the function called once per frame of the message loop.
	//
	// Parameters:
	//   - callback: function receiving the seconds elapsed since the previous frame (or nil to disable)
	SetUpdateCallback(callback func(dt float32))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// KeyPressed polls whether a key is currently held. A Window can be passed to input.Poll.
	//
	// Parameters:
	//   - keyCode: the GLFW key code
	//
	// Returns:
	//   - bool: true if the key is held
	KeyPressed(keyCode uint32) bool

	// SetTitle replaces the text in the title bar.
	//
	// Parameters:
	//   - title: the window title text
	SetTitle(title string)

	// IsRunning returns true until the window is closed or Escape is pressed.
	//
	// Returns:
	//   - bool: true if window is running
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window is already closed
	Close() error

	// ProcessMessages runs the message loop until the window stops running, calling the update
	// callback after each poll.
	ProcessMessages()
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title         string
	width, height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate  func(dt float32)
	onKeyDown func(keyCode uint32)
	onKeyUp   func(keyCode uint32)

	now func() time.Time
}

var _ Window = &engineWindow{}

// NewWindow creates and opens a new Window with the specified options.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:  "oxy-anim",
		width:  960,
		height: 540,
		now:    time.Now,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func(dt float32)) {
	w.onUpdate = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) KeyPressed(keyCode uint32) bool {
	return platformKeyPressed(w, keyCode)
}

func (w *engineWindow) SetTitle(title string) {
	w.title = title
	platformSetTitle(w, title)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	last := w.now()
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		last = w.tick(last)
		runtime.Gosched()
	}
}

// tick calls the update callback with the seconds since last and returns the new frame time.
func (w *engineWindow) tick(last time.Time) time.Time {
	now := w.now()
	if w.onUpdate != nil {
		w.onUpdate(float32(now.Sub(last).Seconds()))
	}
	return now
}
