package services

import (
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"manuscript-review-api/config"
	"manuscript-review-api/models"
)

// Notifier receives lifecycle events after they have committed. Delivery is
// best-effort: the state change that triggered the event never rolls back
// because a notification failed.
type Notifier interface {
	ManuscriptSubmitted(m *models.Manuscript)
	ReviewersAssigned(m *models.Manuscript, assignments []models.ReviewAssignment)
	AssignmentResponded(assignment *models.ReviewAssignment)
	ReviewSubmitted(m *models.Manuscript, assignment *models.ReviewAssignment)
	DecisionRecorded(m *models.Manuscript, decision *models.Decision)
}

// NewDispatcher returns the production notifier: in-app notification rows
// plus templated HTML email per recipient.
func NewDispatcher() Notifier {
	return &notificationDispatcher{}
}

type notificationDispatcher struct{}

func (d *notificationDispatcher) ManuscriptSubmitted(m *models.Manuscript) {
	title := "Manuscript submitted"
	message := fmt.Sprintf("Manuscript %s (%q) has been submitted and awaits reviewer assignment.",
		m.ManuscriptNumber, m.Title)

	// Editors triage new submissions; the corresponding author gets a receipt.
	for _, editor := range usersWithRoles(models.RoleEditor, models.RoleChiefEditor) {
		d.deliver(editor, title, message, "info", m.ManuscriptID)
	}
	if author := correspondingUser(m); author != nil {
		d.deliver(*author, title,
			fmt.Sprintf("Your manuscript %q was received as %s.", m.Title, m.ManuscriptNumber),
			"success", m.ManuscriptID)
	}
}

func (d *notificationDispatcher) ReviewersAssigned(m *models.Manuscript, assignments []models.ReviewAssignment) {
	for _, assignment := range assignments {
		reviewer, err := loadUser(assignment.ReviewerID)
		if err != nil {
			log.Printf("notification skipped, reviewer %d not loadable: %v", assignment.ReviewerID, err)
			continue
		}
		message := fmt.Sprintf("You have been invited to review manuscript %s (%q). Response due by %s.",
			m.ManuscriptNumber, m.Title, assignment.DueDate.Format("2006-01-02"))
		d.deliver(reviewer, "Review invitation", message, "info", m.ManuscriptID)
	}
}

func (d *notificationDispatcher) AssignmentResponded(assignment *models.ReviewAssignment) {
	verb := "declined"
	if assignment.Status == models.AssignmentAccepted {
		verb = "accepted"
	}
	message := fmt.Sprintf("A reviewer has %s the assignment for manuscript %s.", verb, assignment.ManuscriptID)
	for _, editor := range usersWithRoles(models.RoleEditor, models.RoleChiefEditor) {
		d.deliver(editor, "Assignment response", message, "info", assignment.ManuscriptID)
	}
}

func (d *notificationDispatcher) ReviewSubmitted(m *models.Manuscript, assignment *models.ReviewAssignment) {
	message := fmt.Sprintf("A review has been submitted for manuscript %s (%q).", m.ManuscriptNumber, m.Title)
	for _, editor := range usersWithRoles(models.RoleEditor, models.RoleChiefEditor) {
		d.deliver(editor, "Review submitted", message, "info", m.ManuscriptID)
	}
}

func (d *notificationDispatcher) DecisionRecorded(m *models.Manuscript, decision *models.Decision) {
	var title, kind string
	switch decision.Result {
	case models.DecisionAccept:
		title, kind = "Manuscript accepted", "success"
	case models.DecisionReject:
		title, kind = "Manuscript rejected", "error"
	default:
		title, kind = "Revision required", "warning"
	}

	message := fmt.Sprintf("An editorial decision (%s) has been recorded for your manuscript %s (%q).",
		decision.Result, m.ManuscriptNumber, m.Title)
	if decision.Note != nil && *decision.Note != "" {
		message += " Editor note: " + *decision.Note
	}

	for i := range m.Authors {
		author, err := loadUser(m.Authors[i].UserID)
		if err != nil {
			continue
		}
		d.deliver(author, title, message, kind, m.ManuscriptID)
	}
}

// deliver writes the in-app row synchronously and pushes the email out on a
// goroutine; neither failure propagates to the caller.
func (d *notificationDispatcher) deliver(user models.User, title, message, kind, manuscriptID string) {
	n := models.Notification{
		UserID:              user.UserID,
		Title:               title,
		Message:             message,
		Type:                kind,
		RelatedManuscriptID: &manuscriptID,
		IsRead:              false,
		CreateAt:            time.Now(),
	}
	if err := config.DB.Create(&n).Error; err != nil {
		log.Printf("notification insert failed (user=%d title=%q): %v", user.UserID, title, err)
	}

	if user.Email == "" {
		return
	}
	recipient := user.FullName()
	email := user.Email
	go func() {
		html := buildNotificationEmailHTML(title, recipient, message)
		if err := config.SendMail([]string{email}, title, html); err != nil {
			log.Printf("notification email send failed (subject=%q to=%s): %v", title, email, err)
		}
	}()
}

func usersWithRoles(roles ...string) []models.User {
	var users []models.User
	err := config.DB.
		Joins("JOIN user_roles ur ON ur.user_id = users.user_id").
		Joins("JOIN roles r ON r.role_id = ur.role_id").
		Where("r.role IN ? AND users.delete_at IS NULL AND users.is_active = ?", roles, true).
		Distinct("users.*").
		Find(&users).Error
	if err != nil {
		log.Printf("failed to load notification recipients for roles %v: %v", roles, err)
		return nil
	}
	return users
}

func loadUser(userID int) (models.User, error) {
	var user models.User
	err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error
	return user, err
}

func correspondingUser(m *models.Manuscript) *models.User {
	author := m.CorrespondingAuthor()
	if author == nil {
		return nil
	}
	if author.User != nil {
		return author.User
	}
	user, err := loadUser(author.UserID)
	if err != nil {
		return nil
	}
	return &user
}

func buildNotificationEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "Colleague"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Dear %s,", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0 0 0 0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}
