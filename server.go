package braindump

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/garysheng/braindump/draft"
	"github.com/garysheng/braindump/providers"
	"github.com/garysheng/braindump/store"
	"github.com/garysheng/braindump/transcription"
)

// DefaultRequestTimeout bounds every call made to a hosted provider.
const DefaultRequestTimeout = 120 * time.Second

// maxUploadBytes caps a single audio upload.
const maxUploadBytes = 25 << 20

// Options configures a Server.
type Options struct {
	Addr       string
	Store      *store.Store
	Dispatcher *transcription.Dispatcher
	Generator  *draft.Generator
	// Checkers are keyed by the name used in /api/test-key/{provider}.
	Checkers       map[string]providers.KeyChecker
	RequestTimeout time.Duration
}

// Server is the HTTP API in front of the session store and the hosted
// speech and generation providers. Credentials arrive with each request
// and are never stored or logged.
type Server struct {
	srv        *http.Server
	log        *log.Logger
	store      *store.Store
	dispatcher *transcription.Dispatcher
	generator  *draft.Generator
	checkers   map[string]providers.KeyChecker
	timeout    time.Duration
	now        func() time.Time

	connsMu sync.Mutex
	conns   map[*WebConn]struct{}
}

func New(opts Options) *Server {
	logger := log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)
	mux := http.NewServeMux()

	if opts.Addr == "" {
		opts.Addr = ":8081"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}

	server := &Server{
		srv: &http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 10 * time.Second,
			// Generation can take most of the provider timeout.
			WriteTimeout: opts.RequestTimeout + 10*time.Second,
			IdleTimeout:  60 * time.Second,
			Handler:      mux,
		},
		log:        logger,
		store:      opts.Store,
		dispatcher: opts.Dispatcher,
		generator:  opts.Generator,
		checkers:   opts.Checkers,
		timeout:    opts.RequestTimeout,
		now:        time.Now,
		conns:      make(map[*WebConn]struct{}),
	}

	mux.HandleFunc("POST /api/transcribe", server.handleTranscribe)
	mux.HandleFunc("POST /api/generate-draft", server.handleGenerateDraft)
	mux.HandleFunc("POST /api/generate-questions", server.handleGenerateQuestions)
	mux.HandleFunc("POST /api/test-key/{provider}", server.handleTestKey)

	mux.HandleFunc("GET /api/users/{userID}/sessions", server.handleListSessions)
	mux.HandleFunc("POST /api/users/{userID}/sessions", server.handleCreateSession)
	mux.HandleFunc("GET /api/users/{userID}/sessions/latest", server.handleLatestSession)
	mux.HandleFunc("GET /api/users/{userID}/sessions/{sessionID}", server.handleGetSession)
	mux.HandleFunc("DELETE /api/users/{userID}/sessions/{sessionID}", server.handleDeleteSession)
	mux.HandleFunc("GET /api/users/{userID}/sessions/{sessionID}/export", server.handleExport)
	mux.HandleFunc("GET /api/users/{userID}/sessions/{sessionID}/drafts", server.handleListDrafts)
	mux.HandleFunc("POST /api/users/{userID}/sessions/{sessionID}/drafts", server.handleSaveDraft)
	mux.HandleFunc("POST /api/users/{userID}/sessions/{sessionID}/questions", server.handleAddQuestion)
	mux.HandleFunc("PUT /api/users/{userID}/sessions/{sessionID}/questions/order", server.handleReorderQuestions)
	mux.HandleFunc("DELETE /api/users/{userID}/sessions/{sessionID}/questions/{questionID}", server.handleDeleteQuestion)
	mux.HandleFunc("POST /api/users/{userID}/sessions/{sessionID}/questions/{questionID}/responses", server.handleAddResponse)
	mux.HandleFunc("DELETE /api/users/{userID}/sessions/{sessionID}/questions/{questionID}/responses/{responseID}", server.handleDeleteResponse)

	mux.HandleFunc("GET /api/templates/public", server.handlePublicTemplates)
	mux.HandleFunc("GET /api/users/{userID}/templates", server.handleListTemplates)
	mux.HandleFunc("POST /api/users/{userID}/templates", server.handleCreateTemplate)
	mux.HandleFunc("GET /api/users/{userID}/templates/{templateID}", server.handleGetTemplate)
	mux.HandleFunc("PUT /api/users/{userID}/templates/{templateID}", server.handleUpdateTemplate)
	mux.HandleFunc("DELETE /api/users/{userID}/templates/{templateID}", server.handleDeleteTemplate)
	mux.HandleFunc("POST /api/users/{userID}/templates/{templateID}/questions", server.handleAppendTemplateQuestions)
	mux.HandleFunc("POST /api/users/{userID}/templates/{templateID}/sessions", server.handleSessionFromTemplate)

	mux.HandleFunc("GET /ws/users/{userID}/sessions/{sessionID}", server.handleSessionFeed)

	return server
}

// SetLogger replaces the server's logger.
func (s *Server) SetLogger(l *log.Logger) {
	s.log = l
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Start() error {
	var wg sync.WaitGroup
	errChan := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.log.Printf("Starting server on %s", s.srv.Addr)
		errChan <- s.srv.ListenAndServe()
	}()

	wg.Wait()
	close(errChan)
	for err := range errChan {
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	return nil
}

func (s *Server) Stop() error {
	s.log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown does not touch hijacked connections.
	s.stopAllConns()
	return s.srv.Shutdown(ctx)
}

func (s *Server) addConn(wc *WebConn) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	s.conns[wc] = struct{}{}
}

func (s *Server) removeConn(wc *WebConn) {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	delete(s.conns, wc)
}

func (s *Server) stopAllConns() {
	s.connsMu.Lock()
	conns := make([]*WebConn, 0, len(s.conns))
	for wc := range s.conns {
		conns = append(conns, wc)
	}
	s.connsMu.Unlock()

	for _, wc := range conns {
		wc.Stop()
	}
}

// providerContext bounds a provider call by the request and the server
// timeout.
func (s *Server) providerContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.timeout)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("Failed to write response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps store errors to statuses.
func (s *Server) writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, store.ErrInvalidInput):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Printf("Error in %s: %v", op, err)
		s.writeError(w, http.StatusInternalServerError, "Failed to process request. Please try again.")
	}
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	return json.NewDecoder(r.Body).Decode(v)
}
