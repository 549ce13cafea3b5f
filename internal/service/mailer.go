package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/jobportal-backend/internal/domain/valueobject"
	"github.com/ignatzorin/jobportal-backend/internal/goroutine"
	"github.com/ignatzorin/jobportal-backend/internal/logger"
)

// Letter - письмо пользователю.
type Letter struct {
	To      string
	Subject string
	Body    string
}

// Mailer отправляет письма.
type Mailer interface {
	Send(ctx context.Context, letter Letter) error
}

// LogMailer пишет письма в лог вместо отправки.
type LogMailer struct {
	From string
	log  *logrus.Entry
}

func NewLogMailer(from string) *LogMailer {
	return &LogMailer{From: from, log: logger.Component("mailer")}
}

func (m *LogMailer) Send(_ context.Context, letter Letter) error {
	m.log.WithFields(logrus.Fields{
		"from":    m.From,
		"to":      letter.To,
		"subject": letter.Subject,
	}).Info(letter.Body)
	return nil
}

// sendAsync отправляет письмо в фоне. Ошибка отправки только логируется.
func sendAsync(ctx context.Context, mailer Mailer, letter Letter) {
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		if err := mailer.Send(ctx, letter); err != nil {
			logger.Component("mailer").WithError(err).WithField("to", letter.To).Error("не удалось отправить письмо")
		}
	})
}

// ApplicationLetterData - данные для писем по отклику.
type ApplicationLetterData struct {
	ApplicantName  string
	ApplicantEmail string
	JobTitle       string
	Company        string
	EmployerName   string
}

// ApplicationReceivedLetter - подтверждение отправки отклика соискателю.
func ApplicationReceivedLetter(d ApplicationLetterData) Letter {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", d.ApplicantName)
	fmt.Fprintf(&b, "Thank you for applying for the position of %s at %s.\n", d.JobTitle, d.Company)
	b.WriteString("We have received your application and will review it shortly.\n\n")
	b.WriteString("We will contact you if your qualifications match our requirements.\n\n")
	fmt.Fprintf(&b, "Best regards,\n%s", d.Company)

	return Letter{
		To:      d.ApplicantEmail,
		Subject: "Application Received - " + d.JobTitle,
		Body:    b.String(),
	}
}

// AcknowledgementLetter - письмо работодателя о том, что отклик взят в работу.
func AcknowledgementLetter(d ApplicationLetterData) Letter {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Thank you for your application for the position of %s at %s.\n\n"+
			"We have received your application and our recruiting team will carefully review your qualifications. "+
			"We will be in touch soon regarding next steps.\n\n"+
			"Best regards,\n%s\n%s",
		d.ApplicantName, d.JobTitle, d.Company, d.EmployerName, d.Company,
	)

	return Letter{
		To:      d.ApplicantEmail,
		Subject: "Application Received - " + d.JobTitle,
		Body:    body,
	}
}

// StatusUpdateLetter - письмо о смене статуса отклика.
func StatusUpdateLetter(d ApplicationLetterData, status valueobject.ApplicationStatus, feedback string) Letter {
	var feedbackSection string
	if strings.TrimSpace(feedback) != "" {
		feedbackSection = "\n\nFeedback from the employer:\n" + feedback
	}

	body := fmt.Sprintf("Dear %s,\n\n%s%s\n\nBest regards,\n%s\n%s",
		d.ApplicantName, statusMessage(d, status), feedbackSection, d.EmployerName, d.Company)

	return Letter{
		To:      d.ApplicantEmail,
		Subject: fmt.Sprintf("Application Status Update - %s at %s", d.JobTitle, d.Company),
		Body:    body,
	}
}

func statusMessage(d ApplicationLetterData, status valueobject.ApplicationStatus) string {
	switch status {
	case valueobject.ApplicationStatusReviewing:
		return fmt.Sprintf("Your application for %s position at %s is now under review by our team.\n\n"+
			"We are carefully evaluating your qualifications and experience. "+
			"We appreciate your patience during this process.", d.JobTitle, d.Company)
	case valueobject.ApplicationStatusShortlisted:
		return fmt.Sprintf("Congratulations! You have been shortlisted for the %s position at %s.\n\n"+
			"Your application has impressed our team, and we would like to move forward "+
			"with the next steps in the selection process. You will receive further "+
			"information about the interview process soon.", d.JobTitle, d.Company)
	case valueobject.ApplicationStatusInterviewed:
		return fmt.Sprintf("Thank you for attending the interview for the %s position at %s.\n\n"+
			"We appreciate the time you spent with us discussing the role. "+
			"Our team is evaluating all candidates, and we will get back to you "+
			"with our decision shortly.", d.JobTitle, d.Company)
	case valueobject.ApplicationStatusOffered:
		return fmt.Sprintf("Congratulations! We are pleased to inform you that you have been selected "+
			"for the %s position at %s.\n\n"+
			"We will be sending you a formal offer letter shortly with all the details. "+
			"We are excited about the possibility of you joining our team!", d.JobTitle, d.Company)
	case valueobject.ApplicationStatusAccepted:
		return fmt.Sprintf("Welcome to %s!\n\n"+
			"We are thrilled that you have accepted our offer for the %s position. "+
			"Our HR team will be in touch shortly with next steps and onboarding information.", d.Company, d.JobTitle)
	case valueobject.ApplicationStatusRejected:
		return fmt.Sprintf("Thank you for your interest in the %s position at %s.\n\n"+
			"After careful consideration, we regret to inform you that we have decided "+
			"to move forward with other candidates whose qualifications more closely match "+
			"our current needs. We appreciate the time and effort you invested in applying, "+
			"and we encourage you to apply for future positions that match your qualifications.", d.JobTitle, d.Company)
	default:
		return fmt.Sprintf("Your application for the %s position at %s has been updated.\n\nCurrent status: %s",
			d.JobTitle, d.Company, status.Label())
	}
}

// PasswordResetLetter - письмо со ссылкой на сброс пароля.
func PasswordResetLetter(to, link string) Letter {
	return Letter{
		To:      to,
		Subject: "Password Reset Request",
		Body:    "To reset your password, click the following link: " + link,
	}
}
