package recorder

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/garysheng/braindump/transcription"
)

type fakePlatform struct {
	userAgent string
	supported map[string]bool
	newErr    error
	requested string
}

func (p *fakePlatform) UserAgent() string { return p.userAgent }

func (p *fakePlatform) Supports(mimeType string) bool { return p.supported[mimeType] }

func (p *fakePlatform) NewRecorder(mimeType string) (Recorder, error) {
	p.requested = mimeType
	if p.newErr != nil {
		return nil, p.newErr
	}
	if mimeType == "" {
		mimeType = "audio/mp4"
	}
	return &fakeRecorder{mime: mimeType}, nil
}

type fakeRecorder struct {
	mime string

	mu     sync.Mutex
	frames int
}

func (r *fakeRecorder) MIMEType() string { return r.mime }

func (r *fakeRecorder) Write(frame []int16) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
	return nil
}

func (r *fakeRecorder) Stop() ([][]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frames == 0 {
		return nil, nil
	}
	return [][]byte{[]byte("chunk-1"), []byte("chunk-2")}, nil
}

type fakeStream struct {
	silent bool
	frame  []int16

	once   sync.Once
	done   chan struct{}
	mu     sync.Mutex
	closes int
}

func newFakeStream(silent bool) *fakeStream {
	return &fakeStream{silent: silent, frame: []int16{1000, -1000, 1000, -1000}, done: make(chan struct{})}
}

func (s *fakeStream) Read() ([]int16, error) {
	if s.silent {
		<-s.done
		return nil, io.EOF
	}
	select {
	case <-s.done:
		return nil, io.EOF
	case <-time.After(time.Millisecond):
		return s.frame, nil
	}
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	s.closes++
	s.mu.Unlock()
	s.once.Do(func() { close(s.done) })
	return nil
}

func (s *fakeStream) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

type fakeMic struct {
	err    error
	stream *fakeStream

	mu   sync.Mutex
	opts []StreamOptions
}

func (m *fakeMic) Open(_ context.Context, opts StreamOptions) (Stream, error) {
	m.mu.Lock()
	m.opts = append(m.opts, opts)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.stream, nil
}

// journal records the order of navigation and uploads.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(e string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
}

func (j *journal) snapshot() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

type upload struct {
	questionID string
	clip       transcription.Clip
}

type fakeUploader struct {
	journal *journal
	err     error
	block   chan struct{}

	mu      sync.Mutex
	uploads []upload
}

func (u *fakeUploader) Upload(_ context.Context, questionID string, clip transcription.Clip) error {
	u.journal.add("upload:" + questionID)
	u.mu.Lock()
	u.uploads = append(u.uploads, upload{questionID: questionID, clip: clip})
	u.mu.Unlock()
	if u.block != nil {
		<-u.block
	}
	return u.err
}

func (u *fakeUploader) snapshot() []upload {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]upload(nil), u.uploads...)
}

type fakeNav struct {
	journal *journal
	ids     []string

	mu  sync.Mutex
	idx int
}

func (n *fakeNav) Current() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ids[n.idx], n.idx == len(n.ids)-1
}

func (n *fakeNav) Previous() {
	n.journal.add("previous")
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.idx > 0 {
		n.idx--
	}
}

func (n *fakeNav) Next() {
	n.journal.add("next")
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.idx < len(n.ids)-1 {
		n.idx++
	}
}

type fakePrefs struct{ auto bool }

func (p fakePrefs) AutoAdvance() bool { return p.auto }

type fakeNotifier struct {
	states chan State

	mu        sync.Mutex
	history   []State
	levels    []float64
	warmUps   []bool
	remaining []time.Duration
	infos     []string
	errs      []error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{states: make(chan State, 32)}
}

func (n *fakeNotifier) StateChanged(s State) {
	n.mu.Lock()
	n.history = append(n.history, s)
	n.mu.Unlock()
	n.states <- s
}

func (n *fakeNotifier) Level(level float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.levels = append(n.levels, level)
}

func (n *fakeNotifier) WarmingUp(on bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warmUps = append(n.warmUps, on)
}

func (n *fakeNotifier) Remaining(d time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.remaining = append(n.remaining, d)
}

func (n *fakeNotifier) Info(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, msg)
}

func (n *fakeNotifier) Error(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errs = append(n.errs, err)
}

func (n *fakeNotifier) snapshot() (history []State, infos []string, errs []error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]State(nil), n.history...), append([]string(nil), n.infos...), append([]error(nil), n.errs...)
}
