package braindump

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/garysheng/braindump/draft"
	"github.com/garysheng/braindump/providers/anthropic"
	"github.com/garysheng/braindump/transcription"
)

type TranscribeResponse struct {
	Transcript string `json:"transcript"`
}

type GenerateQuestionsRequest struct {
	Prompt string         `json:"prompt"`
	APIKey string         `json:"apiKey"`
	Model  draft.Provider `json:"model"`
}

type TestKeyRequest struct {
	APIKey string `json:"apiKey"`
}

type TestKeyResponse struct {
	Success bool `json:"success"`
}

// readClip pulls the audio file and api key out of a multipart upload.
func readClip(w http.ResponseWriter, r *http.Request) (transcription.Clip, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return transcription.Clip{}, "", err
	}
	apiKey := r.FormValue("apiKey")

	file, header, err := r.FormFile("audio")
	if err != nil {
		return transcription.Clip{}, apiKey, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return transcription.Clip{}, apiKey, err
	}
	return transcription.Clip{Data: data, MIMEType: header.Header.Get("Content-Type")}, apiKey, nil
}

// transcribeStatus maps a dispatcher error to a status and message.
func transcribeStatus(err error) (int, string) {
	if errors.Is(err, transcription.ErrMissingInput) {
		return http.StatusBadRequest, "Missing audio file or API key"
	}
	return http.StatusInternalServerError, "Failed to transcribe audio"
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	clip, apiKey, err := readClip(w, r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "No audio file provided")
		return
	}

	ctx, cancel := s.providerContext(r)
	defer cancel()

	text, err := s.dispatcher.Transcribe(ctx, clip, apiKey)
	if err != nil {
		status, msg := transcribeStatus(err)
		s.writeError(w, status, msg)
		return
	}

	s.writeJSON(w, http.StatusOK, TranscribeResponse{Transcript: text})
}

func (s *Server) handleGenerateDraft(w http.ResponseWriter, r *http.Request) {
	var req draft.Request
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	ctx, cancel := s.providerContext(r)
	defer cancel()

	res, err := s.generator.Generate(ctx, req)
	if err != nil {
		var derr *draft.Error
		if errors.As(err, &derr) {
			s.writeError(w, derr.Kind.HTTPStatus(), derr.Error())
			return
		}
		s.log.Printf("Error generating draft: %v", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to process request. Please try again.")
		return
	}

	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req GenerateQuestionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if req.Model == "" {
		req.Model = draft.ProviderClaude
	}

	ctx, cancel := s.providerContext(r)
	defer cancel()

	out, err := s.generator.GenerateQuestions(ctx, req.Model, req.Prompt, req.APIKey)
	if err != nil {
		var derr *draft.Error
		if errors.As(err, &derr) && derr.Kind == draft.MissingInput {
			s.writeError(w, http.StatusBadRequest, derr.Error())
			return
		}
		s.log.Printf("Error generating content with %s: %v", req.Model, err)
		s.writeError(w, http.StatusInternalServerError, "Failed to generate content")
		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

// handleTestKey makes the provider's minimal real request with the key.
func (s *Server) handleTestKey(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("provider")
	checker, ok := s.checkers[name]
	if !ok {
		s.writeError(w, http.StatusNotFound, "Unknown provider")
		return
	}

	var req TestKeyRequest
	if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.APIKey) == "" {
		s.writeError(w, http.StatusBadRequest, "API key is required")
		return
	}

	ctx, cancel := s.providerContext(r)
	defer cancel()

	if err := checker.CheckKey(ctx, strings.TrimSpace(req.APIKey)); err != nil {
		if errors.Is(err, anthropic.ErrInvalidKeyFormat) {
			s.writeError(w, http.StatusBadRequest, "Invalid API key format")
			return
		}
		// The error text may echo request details, so only the provider is logged.
		s.log.Printf("Key check for %s failed", name)
		s.writeError(w, http.StatusUnauthorized, "Invalid API key")
		return
	}

	s.writeJSON(w, http.StatusOK, TestKeyResponse{Success: true})
}
