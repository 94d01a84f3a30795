package gapsession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func newTestSession(gaps ...string) *Session {
	return New("Build services in Go.", "Acme AB", "Backend Engineer", gaps, "Highlight ownership.")
}

func TestSession_WalksGapsInOrder(t *testing.T) {
	s := newTestSession("Go", "Kubernetes", "Terraform")

	for _, want := range []string{"Go", "Kubernetes", "Terraform"} {
		require.Equal(t, StateAskingSkill, s.State())
		skill, ok := s.CurrentSkill()
		require.True(t, ok)
		assert.Equal(t, want, skill)
		require.True(t, s.Submit(Answer{HasExperience: boolPtr(true)}))
	}

	assert.Equal(t, StateFinalizing, s.State())
	_, ok := s.CurrentSkill()
	assert.False(t, ok)
}

func TestSession_NoGapsFinalizesImmediately(t *testing.T) {
	s := newTestSession()

	assert.Equal(t, StateFinalizing, s.State())
	assert.False(t, s.Submit(Answer{HasExperience: boolPtr(true)}))
	assert.Empty(t, s.Answers)
}

func TestSession_PreviousKeepsAnswers(t *testing.T) {
	s := newTestSession("Go", "Kubernetes")

	require.True(t, s.Submit(Answer{HasExperience: boolPtr(true), Level: "advanced"}))
	require.True(t, s.Previous())

	assert.Equal(t, StateAskingSkill, s.State())
	skill, _ := s.CurrentSkill()
	assert.Equal(t, "Go", skill)
	assert.Equal(t, "advanced", s.Answers["Go"].Level)
}

func TestSession_ResubmitOverwritesAnswer(t *testing.T) {
	s := newTestSession("Go")

	require.True(t, s.Submit(Answer{HasExperience: boolPtr(true)}))
	require.True(t, s.Previous())
	require.True(t, s.Submit(Answer{HasExperience: boolPtr(false), Related: "Used Rust for similar work."}))

	answer := s.Answers["Go"]
	require.NotNil(t, answer.HasExperience)
	assert.False(t, *answer.HasExperience)
	assert.Equal(t, "Used Rust for similar work.", answer.Related)
}

func TestSession_PreviousAtStartRefuses(t *testing.T) {
	s := newTestSession("Go")

	assert.False(t, s.Previous())
	skill, _ := s.CurrentSkill()
	assert.Equal(t, "Go", skill)
}

func TestAnswer_AddsSkill(t *testing.T) {
	tests := []struct {
		name   string
		answer Answer
		want   bool
	}{
		{"skipped question", Answer{}, false},
		{"confirmed experience", Answer{HasExperience: boolPtr(true)}, true},
		{"confirmed with level", Answer{HasExperience: boolPtr(true), Level: "intermediate"}, true},
		{"denied without note", Answer{HasExperience: boolPtr(false)}, false},
		{"denied with related note", Answer{HasExperience: boolPtr(false), Related: "Used Rust."}, true},
		{"skipped with stray note", Answer{Related: "Used Rust."}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.answer.AddsSkill())
		})
	}
}

func TestEncodeToken_RoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	s := newTestSession("Go", "Kubernetes")
	require.True(t, s.Submit(Answer{HasExperience: boolPtr(true), Details: "Five years of services."}))

	token, err := EncodeToken(s, secret, time.Hour)
	require.NoError(t, err)

	decoded, err := DecodeToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, s, decoded)
}

func TestDecodeToken_RejectsWrongSecret(t *testing.T) {
	s := newTestSession("Go")
	token, err := EncodeToken(s, []byte("secret-a"), time.Hour)
	require.NoError(t, err)

	_, err = DecodeToken(token, []byte("secret-b"))
	require.Error(t, err)
	var tokenErr *TokenError
	assert.ErrorAs(t, err, &tokenErr)
}

func TestDecodeToken_RejectsExpired(t *testing.T) {
	s := newTestSession("Go")
	token, err := EncodeToken(s, []byte("secret"), -time.Minute)
	require.NoError(t, err)

	_, err = DecodeToken(token, []byte("secret"))
	assert.Error(t, err)
}

func TestDecodeToken_RejectsGarbage(t *testing.T) {
	_, err := DecodeToken("not-a-token", []byte("secret"))
	assert.Error(t, err)
}
