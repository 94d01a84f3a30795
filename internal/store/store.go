// Package store persists job applications and generated CVs as plain files:
// one JSON record per application plus an HTML/PDF history directory. No
// database is involved, so a store directory can be copied or inspected with
// ordinary tools.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/noor/cv-tailor/internal/gapsession"
)

const (
	applicationsDirName = "applications"
	cvHistoryDirName    = "cv_history"
	defaultTemplateName = "cv.html"

	idTimestampLayout = "20060102_150405"
)

// Application is one saved job application record.
type Application struct {
	ID              string                       `json:"id"`
	Company         string                       `json:"company"`
	JobTitle        string                       `json:"job_title"`
	JobDescription  string                       `json:"job_description"`
	SkillGaps       []string                     `json:"skill_gaps,omitempty"`
	SkillsAdded     []string                     `json:"skills_added,omitempty"`
	SkillGapAnswers map[string]gapsession.Answer `json:"skill_gap_answers,omitempty"`
	Warning         string                       `json:"warning,omitempty"`
	CreatedAt       time.Time                    `json:"created_at"`
	UpdatedAt       time.Time                    `json:"updated_at"`
}

// HistoricalCV pairs a past application with the CV that was generated for
// it, used as tailoring context for new applications.
type HistoricalCV struct {
	ID          string   `json:"id"`
	Company     string   `json:"company"`
	JobTitle    string   `json:"job_title"`
	CVHTML      string   `json:"cv_html"`
	SkillsAdded []string `json:"skills_added,omitempty"`
}

// Error wraps store failures with context about the failing operation.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("store: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NotFoundError is returned when the requested application does not exist.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("store: application %s not found", e.ID)
}

// Store manages a base directory holding application records, the CV
// history, and the base CV template.
type Store struct {
	baseDir         string
	applicationsDir string
	cvHistoryDir    string
	templatePath    string

	// now is swappable so tests get deterministic IDs and timestamps.
	now func() time.Time
}

// Open prepares the store directories under baseDir. templatePath locates
// the base CV template; when empty or relative it resolves against baseDir.
func Open(baseDir, templatePath string) (*Store, error) {
	if templatePath == "" {
		templatePath = defaultTemplateName
	}
	if !filepath.IsAbs(templatePath) {
		templatePath = filepath.Join(baseDir, templatePath)
	}

	s := &Store{
		baseDir:         baseDir,
		applicationsDir: filepath.Join(baseDir, applicationsDirName),
		cvHistoryDir:    filepath.Join(baseDir, cvHistoryDirName),
		templatePath:    templatePath,
		now:             time.Now,
	}

	for _, dir := range []string{s.applicationsDir, s.cvHistoryDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &Error{Message: "failed to create store directory", Cause: err}
		}
	}
	return s, nil
}

// SaveApplication assigns the application an ID and timestamps and writes it
// to disk. The ID combines the slugged company name with a second-resolution
// timestamp, so records sort naturally on disk.
func (s *Store) SaveApplication(app *Application) (string, error) {
	now := s.now()
	app.ID = companySlug(app.Company) + "_" + now.Format(idTimestampLayout)
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now

	if err := s.writeApplication(app); err != nil {
		return "", err
	}
	return app.ID, nil
}

// LoadApplication reads one application record by ID.
func (s *Store) LoadApplication(id string) (*Application, error) {
	data, err := os.ReadFile(s.applicationPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, &Error{Message: "failed to read application", Cause: err}
	}

	var app Application
	if err := json.Unmarshal(data, &app); err != nil {
		return nil, &Error{Message: "failed to parse application record", Cause: err}
	}
	return &app, nil
}

// ListApplications returns all applications, newest first.
func (s *Store) ListApplications() ([]*Application, error) {
	entries, err := os.ReadDir(s.applicationsDir)
	if err != nil {
		return nil, &Error{Message: "failed to read applications directory", Cause: err}
	}

	var apps []*Application
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		app, err := s.LoadApplication(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	sort.Slice(apps, func(i, j int) bool {
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})
	return apps, nil
}

// UpdateApplication applies mutate to the stored record and writes it back
// with a fresh updated_at timestamp.
func (s *Store) UpdateApplication(id string, mutate func(*Application)) (*Application, error) {
	app, err := s.LoadApplication(id)
	if err != nil {
		return nil, err
	}

	mutate(app)
	app.ID = id
	app.UpdatedAt = s.now()

	if err := s.writeApplication(app); err != nil {
		return nil, err
	}
	return app, nil
}

// SaveCVHTML writes the generated CV for an application into the history
// directory and returns its path.
func (s *Store) SaveCVHTML(id, cvHTML string) (string, error) {
	path := s.CVPath(id)
	if err := os.WriteFile(path, []byte(cvHTML), 0o644); err != nil {
		return "", &Error{Message: "failed to write CV HTML", Cause: err}
	}
	return path, nil
}

// LoadCVHTML reads the generated CV for an application. Returns
// NotFoundError when no CV was saved for the ID.
func (s *Store) LoadCVHTML(id string) (string, error) {
	data, err := os.ReadFile(s.CVPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return "", &NotFoundError{ID: id}
		}
		return "", &Error{Message: "failed to read CV HTML", Cause: err}
	}
	return string(data), nil
}

// SavePDF writes the rendered PDF for an application and returns its path.
func (s *Store) SavePDF(id string, pdf []byte) (string, error) {
	path := s.PDFPath(id)
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", &Error{Message: "failed to write PDF", Cause: err}
	}
	return path, nil
}

// CVPath returns where the CV HTML for an application lives.
func (s *Store) CVPath(id string) string {
	return filepath.Join(s.cvHistoryDir, id+".html")
}

// PDFPath returns where the rendered PDF for an application lives.
func (s *Store) PDFPath(id string) string {
	return filepath.Join(s.cvHistoryDir, id+".pdf")
}

// LoadTemplate reads the base CV template.
func (s *Store) LoadTemplate() (string, error) {
	data, err := os.ReadFile(s.templatePath)
	if err != nil {
		return "", &Error{Message: "failed to read CV template", Cause: err}
	}
	return string(data), nil
}

// HistoricalCVs returns up to limit recent applications together with their
// generated CVs, newest first. Applications without a saved CV are skipped.
// The history files are read concurrently.
func (s *Store) HistoricalCVs(limit int) ([]HistoricalCV, error) {
	apps, err := s.ListApplications()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(apps) > limit {
		apps = apps[:limit]
	}

	results := make([]*HistoricalCV, len(apps))
	var g errgroup.Group
	for i, app := range apps {
		g.Go(func() error {
			cvHTML, err := s.LoadCVHTML(app.ID)
			if err != nil {
				var notFound *NotFoundError
				if errors.As(err, &notFound) {
					return nil
				}
				return err
			}
			results[i] = &HistoricalCV{
				ID:          app.ID,
				Company:     app.Company,
				JobTitle:    app.JobTitle,
				CVHTML:      cvHTML,
				SkillsAdded: app.SkillsAdded,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []HistoricalCV
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *Store) writeApplication(app *Application) error {
	data, err := json.MarshalIndent(app, "", "  ")
	if err != nil {
		return &Error{Message: "failed to encode application record", Cause: err}
	}
	if err := os.WriteFile(s.applicationPath(app.ID), data, 0o644); err != nil {
		return &Error{Message: "failed to write application record", Cause: err}
	}
	return nil
}

func (s *Store) applicationPath(id string) string {
	return filepath.Join(s.applicationsDir, id+".json")
}

// companySlug lowercases the company name and replaces spaces so the result
// is filesystem-safe.
func companySlug(company string) string {
	company = strings.TrimSpace(strings.ToLower(company))
	if company == "" {
		return "unknown"
	}
	return strings.ReplaceAll(company, " ", "_")
}
