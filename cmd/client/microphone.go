package main

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/garysheng/braindump/recorder"
)

const framesPerBuffer = 1024

// portaudioMic opens the default input device. PortAudio must be
// initialized by the caller. The echo, noise and gain options have no
// PortAudio equivalent and are left to the operating system.
type portaudioMic struct{}

func (portaudioMic) Open(_ context.Context, opts recorder.StreamOptions) (recorder.Stream, error) {
	buffer := make([]int16, framesPerBuffer)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(opts.SampleRate), len(buffer), buffer)
	if err != nil {
		return nil, err
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, err
	}

	return &micStream{stream: stream, buffer: buffer}, nil
}

// micStream is one open capture stream. Read and Close are serialized, so
// Close waits for an in-flight Read and later Reads return io.EOF.
type micStream struct {
	mu     sync.Mutex
	stream *portaudio.Stream
	buffer []int16
	closed bool
}

// Read captures one frame. The returned slice is a copy.
func (m *micStream) Read() ([]int16, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, io.EOF
	}
	if err := m.stream.Read(); err != nil && !errors.Is(err, portaudio.InputOverflowed) {
		return nil, err
	}

	frame := make([]int16, len(m.buffer))
	copy(frame, m.buffer)
	return frame, nil
}

// Close stops and closes the stream.
func (m *micStream) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var err error
	if stopErr := m.stream.Stop(); stopErr != nil {
		err = stopErr
	}
	if closeErr := m.stream.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// desktopPlatform has no native compressed recorder, so clips are always
// captured on the WAV path.
type desktopPlatform struct{}

func (desktopPlatform) UserAgent() string {
	return "braindump-cli"
}

func (desktopPlatform) Supports(string) bool {
	return false
}

func (desktopPlatform) NewRecorder(mimeType string) (recorder.Recorder, error) {
	return nil, errors.New("no native recorder for " + mimeType)
}
