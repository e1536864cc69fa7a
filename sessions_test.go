package braindump

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/garysheng/braindump/draft"
	"github.com/garysheng/braindump/providers"
	"github.com/garysheng/braindump/store"
)

const userPath = "/api/users/u1"

func (ts *testServer) createSession(t *testing.T, title string, questions ...string) store.Session {
	t.Helper()
	status, body := ts.do(t, http.MethodPost, userPath+"/sessions", CreateSessionRequest{Title: title, Questions: questions})
	require.Equal(t, http.StatusCreated, status, string(body))
	return decode[store.Session](t, body)
}

func (ts *testServer) getSession(t *testing.T, id string) store.Session {
	t.Helper()
	status, body := ts.do(t, http.MethodGet, userPath+"/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	return decode[store.Session](t, body)
}

func questionTexts(sess store.Session) []string {
	out := make([]string, 0, len(sess.Questions))
	for _, q := range sess.Questions {
		out = append(out, q.Text)
	}
	return out
}

func TestCreateSession_Defaults(t *testing.T) {
	ts := newTestServer(t)

	sess := ts.createSession(t, "")
	assert.Equal(t, "2025-03-09", sess.Title)
	assert.Equal(t, store.DefaultQuestions, questionTexts(sess))
	for i, q := range sess.Questions {
		assert.Equal(t, i, q.Order)
	}
	ts.claude.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestCreateSession_GeneratedTitle(t *testing.T) {
	ts := newTestServer(t)
	ts.gemini.EXPECT().Generate(mock.Anything, mock.MatchedBy(func(r providers.GenerationRequest) bool {
		return r.APIKey == llmKey
	})).Return(`{"title": "Career Check-in"}`, nil).Once()

	status, body := ts.do(t, http.MethodPost, userPath+"/sessions", CreateSessionRequest{
		Questions: []string{"Where do you want to be in a year?"},
		APIKey:    llmKey,
		Model:     draft.ProviderGemini,
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.Equal(t, "Career Check-in", decode[store.Session](t, body).Title)
}

func TestCreateSession_TitleFailureFallsBack(t *testing.T) {
	ts := newTestServer(t)
	ts.claude.EXPECT().Generate(mock.Anything, mock.Anything).Return("", errors.New("invalid_api_key")).Once()

	status, body := ts.do(t, http.MethodPost, userPath+"/sessions", CreateSessionRequest{
		Questions: []string{"Q?"},
		APIKey:    llmKey,
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.Equal(t, "2025-03-09", decode[store.Session](t, body).Title)
	assert.NotContains(t, ts.logs.String(), llmKey)
}

func TestCreateSession_Invalid(t *testing.T) {
	ts := newTestServer(t)

	status, _ := ts.do(t, http.MethodPost, userPath+"/sessions", CreateSessionRequest{Title: "x", Questions: []string{"ok", "  "}})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := ts.do(t, http.MethodGet, userPath+"/sessions", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]store.Session](t, body))
}

func TestSessions_ListGetLatestDelete(t *testing.T) {
	ts := newTestServer(t)

	status, _ := ts.do(t, http.MethodGet, userPath+"/sessions/latest", nil)
	assert.Equal(t, http.StatusNotFound, status)

	first := ts.createSession(t, "First", "A?")
	second := ts.createSession(t, "Second", "B?")

	status, body := ts.do(t, http.MethodGet, userPath+"/sessions", nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[[]store.Session](t, body)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	status, body = ts.do(t, http.MethodGet, userPath+"/sessions/latest", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, second.ID, decode[store.Session](t, body).ID)

	assert.Equal(t, "First", ts.getSession(t, first.ID).Title)

	// Other users cannot see it.
	status, _ = ts.do(t, http.MethodGet, "/api/users/u2/sessions/"+first.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = ts.do(t, http.MethodDelete, userPath+"/sessions/"+first.ID, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = ts.do(t, http.MethodGet, userPath+"/sessions/"+first.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = ts.do(t, http.MethodDelete, userPath+"/sessions/"+first.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestQuestions_AddReorderDelete(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.createSession(t, "S", "One?", "Two?")
	base := fmt.Sprintf("%s/sessions/%s/questions", userPath, sess.ID)

	status, body := ts.do(t, http.MethodPost, base, AddQuestionRequest{Text: " Three? "})
	require.Equal(t, http.StatusCreated, status, string(body))
	three := decode[store.Question](t, body)
	assert.Equal(t, "Three?", three.Text)
	assert.Equal(t, 2, three.Order)

	ids := []string{three.ID, sess.Questions[0].ID, sess.Questions[1].ID}
	status, _ = ts.do(t, http.MethodPut, base+"/order", ReorderQuestionsRequest{QuestionIDs: ids})
	assert.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, []string{"Three?", "One?", "Two?"}, questionTexts(ts.getSession(t, sess.ID)))

	status, _ = ts.do(t, http.MethodPut, base+"/order", ReorderQuestionsRequest{QuestionIDs: ids[:2]})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = ts.do(t, http.MethodDelete, base+"/"+sess.Questions[0].ID, nil)
	assert.Equal(t, http.StatusNoContent, status)
	got := ts.getSession(t, sess.ID)
	assert.Equal(t, []string{"Three?", "Two?"}, questionTexts(got))
	assert.Equal(t, 1, got.Questions[1].Order)

	status, _ = ts.do(t, http.MethodPost, base, AddQuestionRequest{Text: ""})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestResponses_AddAndDelete(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.createSession(t, "S", "One?")
	q := sess.Questions[0]
	base := fmt.Sprintf("%s/sessions/%s/questions/%s/responses", userPath, sess.ID, q.ID)

	status, body := ts.do(t, http.MethodPost, base, AddResponseRequest{Transcription: "typed answer"})
	require.Equal(t, http.StatusCreated, status, string(body))
	typed := decode[store.Response](t, body)

	ts.stt.EXPECT().Transcribe(mock.Anything, mock.MatchedBy(func(r providers.TranscriptionRequest) bool {
		return r.APIKey == sttKey && r.MIMEType == "audio/wav"
	})).Return("spoken answer", nil).Once()
	status, body = ts.upload(t, base, []byte("RIFF"), "audio/wav", sttKey)
	require.Equal(t, http.StatusCreated, status, string(body))
	spoken := decode[store.Response](t, body)
	assert.Equal(t, "spoken answer", spoken.Transcription)

	got := ts.getSession(t, sess.ID)
	latest, ok := got.Questions[0].Latest()
	require.True(t, ok)
	assert.Equal(t, spoken.ID, latest.ID)
	require.Len(t, got.Questions[0].Responses, 2)

	status, _ = ts.do(t, http.MethodDelete, base+"/"+spoken.ID, nil)
	assert.Equal(t, http.StatusNoContent, status)
	got = ts.getSession(t, sess.ID)
	require.Len(t, got.Questions[0].Responses, 1)
	assert.Equal(t, typed.ID, got.Questions[0].Responses[0].ID)
}

func TestResponses_Errors(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.createSession(t, "S", "One?")
	base := fmt.Sprintf("%s/sessions/%s/questions/%s/responses", userPath, sess.ID, sess.Questions[0].ID)

	status, _ := ts.do(t, http.MethodPost, base, AddResponseRequest{Transcription: " "})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = ts.do(t, http.MethodPost, fmt.Sprintf("%s/sessions/%s/questions/nope/responses", userPath, sess.ID),
		AddResponseRequest{Transcription: "text"})
	assert.Equal(t, http.StatusNotFound, status)

	ts.stt.EXPECT().Transcribe(mock.Anything, mock.Anything).Return("", errors.New("boom")).Once()
	status, body := ts.upload(t, base, []byte("RIFF"), "audio/wav", sttKey)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Failed to transcribe audio", errorMessage(t, body))
	assert.Empty(t, ts.getSession(t, sess.ID).Questions[0].Responses)
}

func TestExport(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.createSession(t, "S", "One?", "Two?")
	ts.do(t, http.MethodPost, fmt.Sprintf("%s/sessions/%s/questions/%s/responses", userPath, sess.ID, sess.Questions[0].ID),
		AddResponseRequest{Transcription: "First answer"})

	resp, err := http.Get(ts.url + userPath + "/sessions/" + sess.ID + "/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ExportFilename(&sess))
	assert.Equal(t, "Q: One?\nA: First answer\n\nQ: Two?\nA: No response\n", string(body))
}

func TestDrafts_SaveAndList(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.createSession(t, "S", "One?")
	base := fmt.Sprintf("%s/sessions/%s/drafts", userPath, sess.ID)

	status, body := ts.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]store.Draft](t, body))

	status, body = ts.do(t, http.MethodPost, base, SaveDraftRequest{
		Model:    draft.ProviderClaude,
		Format:   draft.FormatPersonal,
		Settings: draft.Settings{Length: 300, Tone: "warm"},
		Content:  "Dear diary",
		Prompt:   "prompt text",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = ts.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, status)
	drafts := decode[[]store.Draft](t, body)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Dear diary", drafts[0].Content)
	assert.Equal(t, "claude", drafts[0].Provider)
	assert.Equal(t, "warm", drafts[0].Settings.Tone)

	status, _ = ts.do(t, http.MethodPost, base, SaveDraftRequest{Model: draft.ProviderClaude})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = ts.do(t, http.MethodPost, userPath+"/sessions/missing/drafts", SaveDraftRequest{Content: "x"})
	assert.Equal(t, http.StatusNotFound, status)
}
