package model

import "time"

// NotificationKind names a discrete store event shown to the user
type NotificationKind string

const (
	NotifyValidationError NotificationKind = "validation_error"
	NotifyAccessDenied    NotificationKind = "access_denied"
	NotifyUnlocked        NotificationKind = "unlocked"
	NotifyBusinessSaved   NotificationKind = "business_saved"
	NotifyAnswerSaved     NotificationKind = "answer_saved"
	NotifyFollowUpPending NotificationKind = "follow_up_pending"
	NotifyFollowUpReady   NotificationKind = "follow_up_ready"
	NotifyFollowUpFailed  NotificationKind = "follow_up_failed"
	NotifyWizardComplete  NotificationKind = "wizard_complete"
)

// Notification is pushed to the presentation layer (toast, socket message)
type Notification struct {
	Kind       NotificationKind `json:"kind"`
	Message    string           `json:"message"`
	QuestionID int              `json:"questionId,omitempty"`
	At         time.Time        `json:"at"`
}

// IsError reports whether the notification should render as a failure
func (n Notification) IsError() bool {
	switch n.Kind {
	case NotifyValidationError, NotifyAccessDenied, NotifyFollowUpFailed:
		return true
	}
	return false
}
