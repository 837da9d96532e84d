package model

import "time"

// Stage is the top-level wizard phase
type Stage string

const (
	StageLocked          Stage = "locked"
	StageBusinessDetails Stage = "business_details"
	StageQuestioning     Stage = "questioning"
	StageComplete        Stage = "complete"
)

// BusinessDetails is entered once, right after unlocking
type BusinessDetails struct {
	Name               string   `json:"name"`
	CustomerCount      *int64   `json:"customerCount"`
	AnnualRevenue      *float64 `json:"annualRevenue"`
	GrossMarginPercent *float64 `json:"grossMarginPercent"`
}

// WizardState is a point-in-time copy of a wizard session for rendering
type WizardState struct {
	SessionID         string           `json:"sessionId"`
	EventID           string           `json:"eventId,omitempty"`
	Stage             Stage            `json:"stage"`
	CurrentQuestionID int              `json:"currentQuestionId"`
	IsSaving          bool             `json:"isSaving"`
	BusinessDetails   *BusinessDetails `json:"businessDetails,omitempty"`
	Questions         []Question       `json:"questions"`
	StartedAt         time.Time        `json:"startedAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// CurrentQuestion returns the question the pointer is on, or nil outside questioning
func (s *WizardState) CurrentQuestion() *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == s.CurrentQuestionID {
			return &s.Questions[i]
		}
	}
	return nil
}

// SaveOutcome describes what a save did
type SaveOutcome string

const (
	OutcomeFollowUpPending SaveOutcome = "follow_up_pending"
	OutcomeAdvanced        SaveOutcome = "advanced"
	OutcomeCompleted       SaveOutcome = "completed"
)

// SessionView is the workbook page: event banner plus wizard state
type SessionView struct {
	Event EventHeader  `json:"event"`
	State *WizardState `json:"state"`
}
