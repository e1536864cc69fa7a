package braindump

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/garysheng/braindump/draft"
	"github.com/garysheng/braindump/store"
)

type CreateSessionRequest struct {
	Title     string   `json:"title"`
	Questions []string `json:"questions"`
	// APIKey and Model are only used to generate a title when none is given.
	APIKey string         `json:"apiKey,omitempty"`
	Model  draft.Provider `json:"model,omitempty"`
}

type AddQuestionRequest struct {
	Text string `json:"text"`
}

type ReorderQuestionsRequest struct {
	QuestionIDs []string `json:"questionIds"`
}

type AddResponseRequest struct {
	Transcription string `json:"transcription"`
}

type SaveDraftRequest struct {
	Model        draft.Provider `json:"model"`
	Format       draft.Format   `json:"format"`
	CustomFormat string         `json:"customFormat,omitempty"`
	Settings     draft.Settings `json:"settings"`
	Content      string         `json:"content"`
	Prompt       string         `json:"prompt"`
}

// ExportFilename is the download name of a session's raw export.
func ExportFilename(sess *store.Session) string {
	return fmt.Sprintf("session-%s.txt", sess.CreatedAt.Format("2006-01-02"))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.store.Sessions(r.Context(), r.PathValue("userID"))
	if err != nil {
		s.writeStoreError(w, "list sessions", err)
		return
	}
	if sessions == nil {
		sessions = []store.Session{}
	}
	s.writeJSON(w, http.StatusOK, sessions)
}

// handleCreateSession creates a session from the given questions, or the
// default questions when none are given.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	texts := req.Questions
	if len(texts) == 0 {
		texts = store.DefaultQuestions
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		model := req.Model
		if model == "" {
			model = draft.ProviderClaude
		}
		ctx, cancel := s.providerContext(r)
		title = s.generator.GenerateTitle(ctx, model, req.APIKey, texts, s.now())
		cancel()
	}

	sess, err := s.store.CreateSession(r.Context(), r.PathValue("userID"), title, texts)
	if err != nil {
		s.writeStoreError(w, "create session", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleLatestSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.MostRecentSession(r.Context(), r.PathValue("userID"))
	if err != nil {
		s.writeStoreError(w, "latest session", err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Session(r.Context(), r.PathValue("userID"), r.PathValue("sessionID"))
	if err != nil {
		s.writeStoreError(w, "get session", err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSession(r.Context(), r.PathValue("userID"), r.PathValue("sessionID")); err != nil {
		s.writeStoreError(w, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Session(r.Context(), r.PathValue("userID"), r.PathValue("sessionID"))
	if err != nil {
		s.writeStoreError(w, "export session", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFilename(sess)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(store.ExportText(sess))); err != nil {
		s.log.Printf("Failed to write export: %v", err)
	}
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := s.store.Drafts(r.Context(), r.PathValue("userID"), r.PathValue("sessionID"))
	if err != nil {
		s.writeStoreError(w, "list drafts", err)
		return
	}
	if drafts == nil {
		drafts = []store.Draft{}
	}
	s.writeJSON(w, http.StatusOK, drafts)
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	var req SaveDraftRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		s.writeError(w, http.StatusBadRequest, "Draft content is empty")
		return
	}

	d, err := s.store.SaveDraft(r.Context(), store.Draft{
		UserID:       r.PathValue("userID"),
		SessionID:    r.PathValue("sessionID"),
		Provider:     string(req.Model),
		Format:       string(req.Format),
		CustomFormat: req.CustomFormat,
		Settings:     req.Settings,
		Content:      req.Content,
		Prompt:       req.Prompt,
	})
	if err != nil {
		s.writeStoreError(w, "save draft", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	var req AddQuestionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	q, err := s.store.AddQuestion(r.Context(), r.PathValue("userID"), r.PathValue("sessionID"), req.Text)
	if err != nil {
		s.writeStoreError(w, "add question", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, q)
}

func (s *Server) handleReorderQuestions(w http.ResponseWriter, r *http.Request) {
	var req ReorderQuestionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.store.ReorderQuestions(r.Context(), r.PathValue("userID"), r.PathValue("sessionID"), req.QuestionIDs); err != nil {
		s.writeStoreError(w, "reorder questions", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteQuestion(r.Context(), r.PathValue("userID"), r.PathValue("sessionID"), r.PathValue("questionID"))
	if err != nil {
		s.writeStoreError(w, "delete question", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAddResponse stores a response. A multipart body carries audio and an
// api key and is transcribed first; a JSON body carries the text itself.
func (s *Server) handleAddResponse(w http.ResponseWriter, r *http.Request) {
	var text string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		clip, apiKey, err := readClip(w, r)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "No audio file provided")
			return
		}

		ctx, cancel := s.providerContext(r)
		text, err = s.dispatcher.Transcribe(ctx, clip, apiKey)
		cancel()
		if err != nil {
			status, msg := transcribeStatus(err)
			s.writeError(w, status, msg)
			return
		}
	} else {
		var req AddResponseRequest
		if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.Transcription) == "" {
			s.writeError(w, http.StatusBadRequest, "Transcription is required")
			return
		}
		text = req.Transcription
	}

	resp, err := s.store.AddResponse(r.Context(), r.PathValue("userID"), r.PathValue("sessionID"), r.PathValue("questionID"), text)
	if err != nil {
		s.writeStoreError(w, "add response", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleDeleteResponse(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteResponse(r.Context(), r.PathValue("userID"), r.PathValue("sessionID"),
		r.PathValue("questionID"), r.PathValue("responseID"))
	if err != nil {
		s.writeStoreError(w, "delete response", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
