package recorder

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/garysheng/braindump/pcm"
)

// Path is the kind of capture path a recorder uses.
type Path int

const (
	PathCompressed Path = iota
	PathEngineDefault
	PathWAV
)

// WAVMIMEType is the type of clips produced by the WAV path.
const WAVMIMEType = "audio/wav"

// compressedFormats are tried in order before any fallback.
var compressedFormats = []string{"audio/webm", "audio/webm;codecs=opus", "audio/ogg;codecs=opus"}

// Format is the chosen capture path. MIMEType is empty for the engine
// default recorder.
type Format struct {
	Path     Path
	MIMEType string
}

// Recorder turns captured frames into clip data.
type Recorder interface {
	MIMEType() string
	Write(frame []int16) error
	// Stop ends the recording and returns its data chunks in order.
	Stop() ([][]byte, error)
}

// Platform describes the capture environment.
type Platform interface {
	UserAgent() string
	Supports(mimeType string) bool
	// NewRecorder creates a native recorder. An empty mimeType asks for the
	// engine's default.
	NewRecorder(mimeType string) (Recorder, error)
}

// IsSafari reports whether the user agent belongs to the Safari engine.
func IsSafari(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	return strings.Contains(ua, "safari") && !strings.Contains(ua, "chrome")
}

// SelectFormat picks the capture path: the first supported compressed
// format, then the Safari default recorder, then WAV.
func SelectFormat(p Platform) Format {
	for _, f := range compressedFormats {
		if p.Supports(f) {
			return Format{Path: PathCompressed, MIMEType: f}
		}
	}
	if IsSafari(p.UserAgent()) {
		return Format{Path: PathEngineDefault}
	}
	return Format{Path: PathWAV, MIMEType: WAVMIMEType}
}

// NewRecorder creates a recorder on the path chosen by SelectFormat.
func NewRecorder(p Platform, sampleRate int) (Recorder, error) {
	f := SelectFormat(p)
	if f.Path != PathWAV {
		rec, err := p.NewRecorder(f.MIMEType)
		if err != nil {
			return nil, &RecorderInitError{Err: err}
		}
		if rec == nil {
			return nil, &RecorderInitError{Err: errors.New("platform returned no recorder")}
		}
		return rec, nil
	}

	if err := registerWAVEncoder(); err != nil {
		return nil, &RecorderInitError{Err: err}
	}
	if sampleRate <= 0 {
		sampleRate = pcm.DefaultSampleRate
	}
	return &wavRecorder{sampleRate: sampleRate}, nil
}

var (
	wavOnce          sync.Once
	wavErr           error
	wavRegistrations atomic.Int32
)

// registerWAVEncoder checks the WAV encoder once per process. Later calls
// return the first result.
func registerWAVEncoder() error {
	wavOnce.Do(func() {
		wavRegistrations.Add(1)
		_, wavErr = pcm.Silence(10, pcm.DefaultSampleRate)
	})
	return wavErr
}

// wavRecorder buffers samples and frames them as a single WAV chunk.
type wavRecorder struct {
	sampleRate int

	mu      sync.Mutex
	samples []int16
	stopped bool
}

func (r *wavRecorder) MIMEType() string {
	return WAVMIMEType
}

func (r *wavRecorder) Write(frame []int16) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return errors.New("recorder stopped")
	}
	r.samples = append(r.samples, frame...)
	return nil
}

// Stop returns no chunks when nothing was captured.
func (r *wavRecorder) Stop() ([][]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	if len(r.samples) == 0 {
		return nil, nil
	}
	clip, err := pcm.EncodeWAV(r.samples, r.sampleRate)
	if err != nil {
		return nil, err
	}
	return [][]byte{clip}, nil
}
