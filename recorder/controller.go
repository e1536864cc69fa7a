package recorder

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/garysheng/braindump/pcm"
	"github.com/garysheng/braindump/transcription"
)

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("recorder closed")

const (
	// DefaultMaxDuration caps a single recording.
	DefaultMaxDuration = 300 * time.Second
	// DefaultStopDelay lets the last buffered audio flush before the
	// microphone is released.
	DefaultStopDelay = time.Second
	// DefaultWarmUp is how long the warm-up indicator stays on.
	DefaultWarmUp = time.Second
)

// StreamOptions are the capture constraints requested from the microphone.
type StreamOptions struct {
	SampleRate       int
	EchoCancellation bool
	NoiseSuppression bool
	AutoGainControl  bool
}

// Stream is an open microphone stream.
type Stream interface {
	// Read blocks until the next frame is captured.
	Read() ([]int16, error)
	Close() error
}

// Microphone opens capture streams.
type Microphone interface {
	Open(ctx context.Context, opts StreamOptions) (Stream, error)
}

// Uploader transcribes a clip and stores it as a response to the question.
type Uploader interface {
	Upload(ctx context.Context, questionID string, clip transcription.Clip) error
}

// Navigator is the question list the controller records against.
type Navigator interface {
	// Current returns the displayed question and whether it is the last one.
	Current() (questionID string, last bool)
	Previous()
	Next()
}

// Preferences holds user settings read at the end of every recording.
type Preferences interface {
	AutoAdvance() bool
}

// Notifier receives everything the UI shows. Calls come from controller
// goroutines and must not call back into the controller synchronously.
type Notifier interface {
	StateChanged(s State)
	Level(level float64)
	WarmingUp(on bool)
	Remaining(d time.Duration)
	Info(msg string)
	Error(err error)
}

// Config tunes the controller. Zero values take the defaults, except
// StopDelay where zero releases the microphone at once.
type Config struct {
	MaxDuration time.Duration
	StopDelay   time.Duration
	WarmUp      time.Duration
	SampleRate  int
}

// Controller owns the platform resources of one recording at a time and
// applies the Machine's decisions to them.
type Controller struct {
	mic      Microphone
	platform Platform
	uploader Uploader
	nav      Navigator
	prefs    Preferences
	notify   Notifier
	cfg      Config
	tick     time.Duration

	mu      sync.Mutex
	machine *Machine
	active  *take
	closed  bool
}

// take is one recording, from microphone open to upload.
type take struct {
	questionID string
	ctx        context.Context
	stream     Stream
	rec        Recorder

	metering    atomic.Bool
	stopTimers  chan struct{}
	stopCapture chan struct{}
	captureDone chan struct{}
	delay       *time.Timer

	haltOnce    sync.Once
	releaseOnce sync.Once
	chunks      [][]byte
	recErr      error
}

// NewController creates an idle controller.
func NewController(mic Microphone, platform Platform, uploader Uploader, nav Navigator, prefs Preferences, notify Notifier, cfg Config) *Controller {
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = DefaultMaxDuration
	}
	if cfg.StopDelay < 0 {
		cfg.StopDelay = DefaultStopDelay
	}
	if cfg.WarmUp <= 0 {
		cfg.WarmUp = DefaultWarmUp
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = pcm.DefaultSampleRate
	}
	return &Controller{
		mic:      mic,
		platform: platform,
		uploader: uploader,
		nav:      nav,
		prefs:    prefs,
		notify:   notify,
		cfg:      cfg,
		tick:     time.Second,
		machine:  NewMachine(cfg.MaxDuration),
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.State()
}

// HandleKey applies a key press.
func (c *Controller) HandleKey(ctx context.Context, k Key) error {
	c.mu.Lock()
	action := c.machine.HandleKey(k)
	c.mu.Unlock()

	switch action {
	case ActionStart:
		return c.Start(ctx)
	case ActionStop:
		c.Stop()
	case ActionPrevious:
		c.nav.Previous()
	case ActionNext:
		c.nav.Next()
	}
	return nil
}

// Start opens the microphone and begins recording the current question.
// A denied microphone yields *PermissionError and the state stays Idle.
func (c *Controller) Start(ctx context.Context) error {
	questionID, _ := c.nav.Current()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if err := c.machine.Start(); err != nil {
		c.mu.Unlock()
		return err
	}

	stream, err := c.mic.Open(ctx, StreamOptions{
		SampleRate:       c.cfg.SampleRate,
		EchoCancellation: true,
		NoiseSuppression: true,
		AutoGainControl:  true,
	})
	if err != nil {
		_ = c.machine.StartFailed()
		c.mu.Unlock()
		perr := &PermissionError{Err: err}
		c.notify.Error(perr)
		return perr
	}

	rec, err := NewRecorder(c.platform, c.cfg.SampleRate)
	if err != nil {
		_ = stream.Close()
		_ = c.machine.StartFailed()
		c.mu.Unlock()
		c.notify.Error(err)
		return err
	}

	t := &take{
		questionID:  questionID,
		ctx:         context.WithoutCancel(ctx),
		stream:      stream,
		rec:         rec,
		stopTimers:  make(chan struct{}),
		stopCapture: make(chan struct{}),
		captureDone: make(chan struct{}),
	}
	t.metering.Store(true)
	c.active = t
	remaining := c.machine.Remaining()
	c.mu.Unlock()

	c.notify.StateChanged(Recording)
	c.notify.WarmingUp(true)
	c.notify.Remaining(remaining)

	go c.capture(t)
	go c.runTimers(t)
	return nil
}

// Stop ends the current recording. Calls while a stop is in flight, or
// while nothing is recording, do nothing.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.closed || c.active == nil || !c.machine.RequestStop() {
		c.mu.Unlock()
		return
	}
	t := c.active
	c.mu.Unlock()

	c.beginStop(t)
}

// Close releases every resource unconditionally. Teardown errors are
// swallowed and results of an in-flight upload are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	t := c.active
	c.active = nil
	if t != nil && t.delay != nil {
		t.delay.Stop()
	}
	c.mu.Unlock()

	if t != nil {
		t.halt()
		t.release()
	}
}

// capture feeds the recorder and, until the stop begins, the level meter.
func (c *Controller) capture(t *take) {
	defer close(t.captureDone)
	for {
		select {
		case <-t.stopCapture:
			return
		default:
		}

		frame, err := t.stream.Read()
		if err != nil {
			return
		}
		_ = t.rec.Write(frame)
		if t.metering.Load() {
			c.notify.Level(pcm.Level(frame))
		}
	}
}

// runTimers drives the countdown and clears the warm-up flag.
func (c *Controller) runTimers(t *take) {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()
	warm := time.NewTimer(c.cfg.WarmUp)
	defer warm.Stop()

	for {
		select {
		case <-t.stopTimers:
			return
		case <-warm.C:
			c.notify.WarmingUp(false)
		case <-ticker.C:
			c.mu.Lock()
			if c.active != t {
				c.mu.Unlock()
				return
			}
			remaining, expired := c.machine.Tick()
			c.mu.Unlock()

			c.notify.Remaining(remaining)
			if expired {
				c.beginStop(t)
				return
			}
		}
	}
}

// beginStop tears down the meter at once and defers releasing the
// microphone by StopDelay. The machine is already in Processing.
func (c *Controller) beginStop(t *take) {
	t.metering.Store(false)
	t.halt()

	c.notify.Level(0)
	c.notify.WarmingUp(false)
	c.notify.StateChanged(Processing)

	c.mu.Lock()
	if c.active == t {
		t.delay = time.AfterFunc(c.cfg.StopDelay, func() { c.finish(t) })
	}
	c.mu.Unlock()
}

// finish releases the microphone, uploads the clip and returns to Idle.
func (c *Controller) finish(t *take) {
	t.release()
	if !c.alive(t) {
		return
	}

	var clip transcription.Clip
	if t.recErr == nil {
		clip = transcription.Clip{Data: bytes.Join(t.chunks, nil), MIMEType: t.rec.MIMEType()}
	}

	// Advance before the round trip so the user is not left waiting on the
	// question they just answered.
	if _, last := c.nav.Current(); c.prefs.AutoAdvance() && !last {
		c.nav.Next()
		c.notify.Info("Moving to next question...")
	}

	var err error
	switch {
	case t.recErr != nil:
		err = t.recErr
	case len(clip.Data) == 0:
		err = transcription.ErrMissingInput
	default:
		err = c.uploader.Upload(t.ctx, t.questionID, clip)
	}

	c.mu.Lock()
	if c.closed || c.active != t {
		c.mu.Unlock()
		return
	}
	_ = c.machine.Finish()
	c.active = nil
	c.mu.Unlock()

	if err != nil {
		c.notify.Error(&SaveError{Err: err})
	} else {
		c.notify.Info("Response recorded successfully!")
	}
	c.notify.StateChanged(Idle)
}

func (c *Controller) alive(t *take) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.active == t
}

// halt stops the timers.
func (t *take) halt() {
	t.haltOnce.Do(func() {
		t.metering.Store(false)
		close(t.stopTimers)
	})
}

// release stops capture, closes the stream and stops the recorder, once.
func (t *take) release() {
	t.releaseOnce.Do(func() {
		close(t.stopCapture)
		_ = t.stream.Close()
		<-t.captureDone
		t.chunks, t.recErr = t.rec.Stop()
	})
}
