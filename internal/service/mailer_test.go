package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/jobportal-backend/internal/domain/valueobject"
)

// mockMailer собирает отправленные письма.
type mockMailer struct {
	mu      sync.Mutex
	letters []Letter
	sent    chan Letter
}

func newMockMailer() *mockMailer {
	return &mockMailer{sent: make(chan Letter, 16)}
}

func (m *mockMailer) Send(_ context.Context, letter Letter) error {
	m.mu.Lock()
	m.letters = append(m.letters, letter)
	m.mu.Unlock()
	m.sent <- letter
	return nil
}

var letterData = ApplicationLetterData{
	ApplicantName:  "Jane Doe",
	ApplicantEmail: "jane@example.com",
	JobTitle:       "Go Developer",
	Company:        "Acme",
	EmployerName:   "John Smith",
}

func TestStatusUpdateLetter(t *testing.T) {
	l := StatusUpdateLetter(letterData, valueobject.ApplicationStatusShortlisted, "Strong Go background")

	assert.Equal(t, "jane@example.com", l.To)
	assert.Equal(t, "Application Status Update - Go Developer at Acme", l.Subject)
	assert.Contains(t, l.Body, "Dear Jane Doe,")
	assert.Contains(t, l.Body, "You have been shortlisted for the Go Developer position at Acme")
	assert.Contains(t, l.Body, "Feedback from the employer:\nStrong Go background")
	assert.Contains(t, l.Body, "Best regards,\nJohn Smith\nAcme")
}

func TestStatusUpdateLetter_NoFeedbackSection(t *testing.T) {
	l := StatusUpdateLetter(letterData, valueobject.ApplicationStatusAccepted, "  ")

	assert.Contains(t, l.Body, "Welcome to Acme!")
	assert.NotContains(t, l.Body, "Feedback from the employer")
}

func TestStatusUpdateLetter_EveryStatusHasMessage(t *testing.T) {
	for _, e := range valueobject.StatusPolicy() {
		l := StatusUpdateLetter(letterData, e.State, "")
		assert.Contains(t, l.Body, "Acme", e.State)
	}
}

func TestAcknowledgementLetter(t *testing.T) {
	l := AcknowledgementLetter(letterData)
	assert.Equal(t, "Application Received - Go Developer", l.Subject)
	assert.Contains(t, l.Body, "our recruiting team will carefully review your qualifications")
}
