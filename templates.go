package braindump

import (
	"net/http"

	"github.com/garysheng/braindump/store"
)

type AppendTemplateQuestionsRequest struct {
	Questions []string `json:"questions"`
}

type SessionFromTemplateRequest struct {
	Title string `json:"title"`
}

func (s *Server) writeTemplates(w http.ResponseWriter, templates []store.Template, err error) {
	if err != nil {
		s.writeStoreError(w, "list templates", err)
		return
	}
	if templates == nil {
		templates = []store.Template{}
	}
	s.writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handlePublicTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.store.PublicTemplates(r.Context())
	s.writeTemplates(w, templates, err)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.store.Templates(r.Context(), r.PathValue("userID"))
	s.writeTemplates(w, templates, err)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var in store.TemplateInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := s.store.CreateTemplate(r.Context(), r.PathValue("userID"), in)
	if err != nil {
		s.writeStoreError(w, "create template", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Template(r.Context(), r.PathValue("userID"), r.PathValue("templateID"))
	if err != nil {
		s.writeStoreError(w, "get template", err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var in store.TemplateInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := s.store.UpdateTemplate(r.Context(), r.PathValue("userID"), r.PathValue("templateID"), in)
	if err != nil {
		s.writeStoreError(w, "update template", err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTemplate(r.Context(), r.PathValue("userID"), r.PathValue("templateID")); err != nil {
		s.writeStoreError(w, "delete template", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAppendTemplateQuestions adds stubs, skipping near-duplicates of
// existing ones. Only the stubs actually added are returned.
func (s *Server) handleAppendTemplateQuestions(w http.ResponseWriter, r *http.Request) {
	var req AppendTemplateQuestionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	added, err := s.store.AppendTemplateQuestions(r.Context(), r.PathValue("userID"), r.PathValue("templateID"), req.Questions)
	if err != nil {
		s.writeStoreError(w, "append template questions", err)
		return
	}
	if added == nil {
		added = []store.TemplateQuestion{}
	}
	s.writeJSON(w, http.StatusOK, added)
}

func (s *Server) handleSessionFromTemplate(w http.ResponseWriter, r *http.Request) {
	var req SessionFromTemplateRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	sess, err := s.store.SessionFromTemplate(r.Context(), r.PathValue("userID"), r.PathValue("templateID"), req.Title)
	if err != nil {
		s.writeStoreError(w, "session from template", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, sess)
}
