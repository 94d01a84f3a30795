package server

import (
	"log"
	"net/http"
	"time"

	"github.com/noor/cv-tailor/internal/gapsession"
	"github.com/noor/cv-tailor/internal/store"
	"github.com/noor/cv-tailor/internal/tailoring"
)

type generateRequest struct {
	Company        string   `json:"company" validate:"required"`
	JobTitle       string   `json:"job_title" validate:"required"`
	JobDescription string   `json:"job_description" validate:"required"`
	AddSkills      []string `json:"add_skills,omitempty"`
	// SkipQuestions produces the CV immediately even when skill gaps were
	// found, instead of starting a questionnaire.
	SkipQuestions bool `json:"skip_questions,omitempty"`
}

type questionResponse struct {
	Skill string `json:"skill"`
	Index int    `json:"index"`
	Total int    `json:"total"`
}

type sessionResponse struct {
	Status       string             `json:"status"`
	SessionToken string             `json:"session_token"`
	SkillGaps    []string           `json:"skill_gaps,omitempty"`
	Question     *questionResponse  `json:"question,omitempty"`
	Analysis     *tailoring.Analysis `json:"analysis,omitempty"`
}

type applicationResponse struct {
	Status        string              `json:"status"`
	ApplicationID string              `json:"application_id"`
	SkillGaps     []string            `json:"skill_gaps,omitempty"`
	SkillsAdded   []string            `json:"skills_added,omitempty"`
	Warning       string              `json:"warning,omitempty"`
	Analysis      *tailoring.Analysis `json:"analysis,omitempty"`
}

// handleGenerate runs a tailoring pass. When the analysis finds skill gaps
// and the caller did not opt out, the response is a questionnaire session
// instead of a finished CV; the client walks the questions and calls
// /session/finalize to produce the document.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := s.decodeRequest(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	result, err := s.engine.Generate(r.Context(), req.JobDescription, req.AddSkills)
	if err != nil {
		s.handleError(w, err)
		return
	}

	if len(result.SkillGaps) > 0 && len(req.AddSkills) == 0 && !req.SkipQuestions {
		session := gapsession.New(req.JobDescription, req.Company, req.JobTitle,
			result.SkillGaps, result.Analysis.Suggestions)
		token, err := s.encodeSession(session)
		if err != nil {
			s.handleError(w, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, s.sessionState(session, token, result.Analysis))
		return
	}

	app, err := s.saveResult(req.Company, req.JobTitle, req.JobDescription, result, nil)
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, applicationResponse{
		Status:        "complete",
		ApplicationID: app.ID,
		SkillGaps:     result.SkillGaps,
		SkillsAdded:   result.SkillsAdded,
		Warning:       result.Warning,
		Analysis:      result.Analysis,
	})
}

type sessionRequest struct {
	SessionToken string `json:"session_token" validate:"required"`
}

type answerRequest struct {
	SessionToken string            `json:"session_token" validate:"required"`
	Answer       gapsession.Answer `json:"answer"`
}

// handleSessionAnswer records the answer for the current question and
// returns the next one, together with a fresh token carrying the updated
// session. A null or omitted has_experience records the question as skipped.
func (s *Server) handleSessionAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := s.decodeRequest(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	session, err := s.decodeSession(req.SessionToken)
	if err != nil {
		s.handleError(w, err)
		return
	}

	if !session.Submit(req.Answer) {
		s.handleError(w, &ErrValidation{Field: "session_token", Message: "no question pending"})
		return
	}

	token, err := s.encodeSession(session)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionState(session, token, nil))
}

// handleSessionPrevious steps the questionnaire back one question so the
// prior answer can be revised.
func (s *Server) handleSessionPrevious(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := s.decodeRequest(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	session, err := s.decodeSession(req.SessionToken)
	if err != nil {
		s.handleError(w, err)
		return
	}

	if !session.Previous() {
		s.handleError(w, &ErrValidation{Field: "session_token", Message: "already at the first question"})
		return
	}

	token, err := s.encodeSession(session)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionState(session, token, nil))
}

// handleSessionFinalize produces the CV using whatever answers were
// collected. Finalizing early is allowed; unanswered skills simply carry no
// questionnaire context.
func (s *Server) handleSessionFinalize(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := s.decodeRequest(r, &req); err != nil {
		s.handleError(w, err)
		return
	}

	session, err := s.decodeSession(req.SessionToken)
	if err != nil {
		s.handleError(w, err)
		return
	}

	result, err := s.engine.GenerateWithAnswers(r.Context(), session.JobDescription, session.Answers)
	if err != nil {
		s.handleError(w, err)
		return
	}

	app, err := s.saveResult(session.Company, session.JobTitle, session.JobDescription, result, session.Answers)
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, applicationResponse{
		Status:        "complete",
		ApplicationID: app.ID,
		SkillGaps:     result.SkillGaps,
		SkillsAdded:   result.SkillsAdded,
		Warning:       result.Warning,
		Analysis:      result.Analysis,
	})
}

func (s *Server) encodeSession(session *gapsession.Session) (string, error) {
	ttl := time.Duration(s.sessions.ExpirationHours) * time.Hour
	token, err := gapsession.EncodeToken(session, []byte(s.sessions.Secret), ttl)
	if err != nil {
		log.Printf("failed to issue session token: %v", err)
		return "", err
	}
	return token, nil
}

func (s *Server) decodeSession(token string) (*gapsession.Session, error) {
	session, err := gapsession.DecodeToken(token, []byte(s.sessions.Secret))
	if err != nil {
		return nil, &ErrInvalidSession{Cause: err}
	}
	return session, nil
}

// sessionState shapes the questionnaire progress for the client. The
// analysis rides along only on the response that opens the session.
func (s *Server) sessionState(session *gapsession.Session, token string, analysis *tailoring.Analysis) sessionResponse {
	resp := sessionResponse{
		Status:       session.State().String(),
		SessionToken: token,
		SkillGaps:    session.SkillGaps,
		Analysis:     analysis,
	}
	if skill, ok := session.CurrentSkill(); ok {
		resp.Question = &questionResponse{
			Skill: skill,
			Index: session.Index,
			Total: len(session.SkillGaps),
		}
	}
	return resp
}

// saveResult persists the application record and its generated CV.
func (s *Server) saveResult(company, jobTitle, jobDescription string, result *tailoring.Result, answers map[string]gapsession.Answer) (*store.Application, error) {
	app := &store.Application{
		Company:         company,
		JobTitle:        jobTitle,
		JobDescription:  jobDescription,
		SkillGaps:       result.SkillGaps,
		SkillsAdded:     result.SkillsAdded,
		SkillGapAnswers: answers,
		Warning:         result.Warning,
	}
	if _, err := s.store.SaveApplication(app); err != nil {
		return nil, err
	}
	if _, err := s.store.SaveCVHTML(app.ID, result.CVHTML); err != nil {
		return nil, err
	}
	return app, nil
}
