package server

import (
	"errors"
	"net/http"

	"github.com/noor/cv-tailor/internal/store"
)

// handleListApplications returns every saved application, newest first.
func (s *Server) handleListApplications(w http.ResponseWriter, _ *http.Request) {
	apps, err := s.store.ListApplications()
	if err != nil {
		s.handleError(w, err)
		return
	}
	if apps == nil {
		apps = []*store.Application{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"applications": apps})
}

// handleGetApplication returns one application record with its CV markup.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	app, err := s.store.LoadApplication(id)
	if err != nil {
		s.handleError(w, s.mapStoreError(id, err))
		return
	}

	cvHTML, err := s.store.LoadCVHTML(id)
	if err != nil && !isNotFound(err) {
		s.handleError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"application": app,
		"cv_html":     cvHTML,
	})
}

// handleApplicationPDF renders the stored CV to PDF on demand and serves the
// bytes. The rendered file is also kept beside the application record so
// repeat downloads skip the browser.
func (s *Server) handleApplicationPDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if s.pdf == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "PDF rendering is not available")
		return
	}

	cvHTML, err := s.store.LoadCVHTML(id)
	if err != nil {
		s.handleError(w, s.mapStoreError(id, err))
		return
	}

	pdfBytes, err := s.pdf.Render(r.Context(), cvHTML)
	if err != nil {
		s.handleError(w, err)
		return
	}

	if _, err := s.store.SavePDF(id, pdfBytes); err != nil {
		s.handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

type addSkillsRequest struct {
	Skills   []string `json:"skills" validate:"required,min=1"`
	Category string   `json:"category,omitempty"`
}

// handleAddSkills merges extra skills into an already generated CV and
// records them on the application.
func (s *Server) handleAddSkills(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req addSkillsRequest
	if err := s.decodeRequest(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	cvHTML, err := s.store.LoadCVHTML(id)
	if err != nil {
		s.handleError(w, s.mapStoreError(id, err))
		return
	}

	updated, added, err := s.engine.MergeSkills(cvHTML, req.Skills, req.Category)
	if err != nil {
		s.handleError(w, err)
		return
	}

	if len(added) > 0 {
		if _, err := s.store.SaveCVHTML(id, updated); err != nil {
			s.handleError(w, err)
			return
		}
		if _, err := s.store.UpdateApplication(id, func(app *store.Application) {
			app.SkillsAdded = append(app.SkillsAdded, added...)
		}); err != nil {
			s.handleError(w, s.mapStoreError(id, err))
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"application_id": id,
		"skills_added":   added,
	})
}

// mapStoreError turns a missing-record error into the API's not-found error.
func (s *Server) mapStoreError(id string, err error) error {
	if isNotFound(err) {
		return &ErrApplicationNotFound{ID: id}
	}
	return err
}

func isNotFound(err error) bool {
	var notFound *store.NotFoundError
	return errors.As(err, &notFound)
}
