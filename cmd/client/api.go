package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	braindump "github.com/garysheng/braindump"
	"github.com/garysheng/braindump/draft"
	"github.com/garysheng/braindump/store"
	"github.com/garysheng/braindump/transcription"
)

// errNoSession is returned by latestSession when the user has none yet.
var errNoSession = errors.New("no sessions yet")

// apiError is a non-2xx answer from the server.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server answered %d", e.Status)
	}
	return e.Message
}

// apiClient talks to the braindump server on behalf of one user.
type apiClient struct {
	baseURL string
	userID  string
	http    *http.Client
}

func newAPIClient(baseURL, userID string) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		userID:  userID,
		// Draft generation can take a while.
		http: &http.Client{Timeout: 3 * time.Minute},
	}
}

func (c *apiClient) userPath(format string, args ...any) string {
	return fmt.Sprintf("/api/users/%s", c.userID) + fmt.Sprintf(format, args...)
}

// do sends in as JSON (when non-nil) and decodes the answer into out (when
// non-nil).
func (c *apiClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *apiClient) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &apiError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if s, ok := out.(*string); ok {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		*s = string(raw)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *apiClient) createSession(ctx context.Context, req braindump.CreateSessionRequest) (*store.Session, error) {
	var sess store.Session
	if err := c.do(ctx, http.MethodPost, c.userPath("/sessions"), req, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (c *apiClient) latestSession(ctx context.Context) (*store.Session, error) {
	var sess store.Session
	err := c.do(ctx, http.MethodGet, c.userPath("/sessions/latest"), nil, &sess)
	var aerr *apiError
	if errors.As(err, &aerr) && aerr.Status == http.StatusNotFound {
		return nil, errNoSession
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// uploadResponse sends a clip to be transcribed and stored as a response.
func (c *apiClient) uploadResponse(ctx context.Context, sessionID, questionID string, clip transcription.Clip, apiKey string) (*store.Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("apiKey", apiKey); err != nil {
		return nil, err
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="audio"; filename="recording"`)
	h.Set("Content-Type", clip.MIMEType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(clip.Data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	path := c.userPath("/sessions/%s/questions/%s/responses", sessionID, questionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp store.Response
	if err := c.send(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) deleteResponse(ctx context.Context, sessionID, questionID, responseID string) error {
	return c.do(ctx, http.MethodDelete, c.userPath("/sessions/%s/questions/%s/responses/%s", sessionID, questionID, responseID), nil, nil)
}

func (c *apiClient) generateDraft(ctx context.Context, req draft.Request) (draft.Result, error) {
	var res draft.Result
	err := c.do(ctx, http.MethodPost, "/api/generate-draft", req, &res)
	return res, err
}

func (c *apiClient) saveDraft(ctx context.Context, sessionID string, req braindump.SaveDraftRequest) error {
	return c.do(ctx, http.MethodPost, c.userPath("/sessions/%s/drafts", sessionID), req, nil)
}

func (c *apiClient) export(ctx context.Context, sessionID string) (string, error) {
	var text string
	err := c.do(ctx, http.MethodGet, c.userPath("/sessions/%s/export", sessionID), nil, &text)
	return text, err
}

func (c *apiClient) checkKey(ctx context.Context, provider, apiKey string) error {
	return c.do(ctx, http.MethodPost, "/api/test-key/"+provider, braindump.TestKeyRequest{APIKey: apiKey}, nil)
}

// remoteChecker validates keys through the server's test-key endpoint.
type remoteChecker struct {
	api      *apiClient
	provider string
}

func (r remoteChecker) CheckKey(ctx context.Context, apiKey string) error {
	return r.api.checkKey(ctx, r.provider, apiKey)
}
