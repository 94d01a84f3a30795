// Package gapsession tracks an interactive skill-gap questionnaire. A
// session walks the candidate through each skill the job asks for that the
// CV does not show, one question at a time, and collects the answers used to
// steer the final tailoring pass.
package gapsession

import (
	"github.com/google/uuid"
)

// State tells the caller what the session expects next.
type State int

const (
	// StateAskingSkill means the session is waiting for an answer about
	// the skill returned by CurrentSkill.
	StateAskingSkill State = iota
	// StateFinalizing means every skill has been answered and the session
	// is ready to feed the tailoring pass.
	StateFinalizing
)

func (s State) String() string {
	switch s {
	case StateAskingSkill:
		return "asking_skill"
	case StateFinalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// Answer records what the candidate said about one skill gap. A nil
// HasExperience means the question was skipped.
type Answer struct {
	HasExperience *bool  `json:"has_experience"`
	Level         string `json:"experience_level,omitempty"`
	Details       string `json:"description,omitempty"`
	Related       string `json:"related_experience,omitempty"`
}

// AddsSkill reports whether the answer justifies putting the skill on the
// CV: confirmed experience, or denied experience with a related-experience
// note. Skipped questions never add.
func (a Answer) AddsSkill() bool {
	if a.HasExperience == nil {
		return false
	}
	return *a.HasExperience || a.Related != ""
}

// Session is the full questionnaire state. It is serialized into the token
// handed back to the client, so the server itself stays stateless.
type Session struct {
	ID             string            `json:"id"`
	JobDescription string            `json:"job_description"`
	Company        string            `json:"company"`
	JobTitle       string            `json:"job_title"`
	SkillGaps      []string          `json:"skill_gaps"`
	Suggestions    string            `json:"suggestions,omitempty"`
	Answers        map[string]Answer `json:"answers"`
	Index          int               `json:"index"`
}

// New starts a questionnaire over the given skill gaps. A session with no
// gaps is finalizing from the start.
func New(jobDescription, company, jobTitle string, gaps []string, suggestions string) *Session {
	return &Session{
		ID:             uuid.NewString(),
		JobDescription: jobDescription,
		Company:        company,
		JobTitle:       jobTitle,
		SkillGaps:      gaps,
		Suggestions:    suggestions,
		Answers:        make(map[string]Answer),
	}
}

// State reports whether the session still has unanswered skills.
func (s *Session) State() State {
	if s.Index >= len(s.SkillGaps) {
		return StateFinalizing
	}
	return StateAskingSkill
}

// CurrentSkill returns the skill the session is asking about. The second
// return is false once the session is finalizing.
func (s *Session) CurrentSkill() (string, bool) {
	if s.State() == StateFinalizing {
		return "", false
	}
	return s.SkillGaps[s.Index], true
}

// Submit records the answer for the current skill and advances to the next
// one. Revisiting a skill overwrites its previous answer. Submitting against
// a finalizing session is a no-op and returns false.
func (s *Session) Submit(answer Answer) bool {
	skill, ok := s.CurrentSkill()
	if !ok {
		return false
	}
	if s.Answers == nil {
		s.Answers = make(map[string]Answer)
	}
	s.Answers[skill] = answer
	s.Index++
	return true
}

// Previous steps back to the prior skill so it can be re-answered. The
// recorded answers are left untouched. Returns false when already at the
// first skill.
func (s *Session) Previous() bool {
	if s.Index == 0 {
		return false
	}
	s.Index--
	return true
}
