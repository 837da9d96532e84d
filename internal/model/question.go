package model

// Question is a single workbook question with its per-session answer state
type Question struct {
	ID             int    `json:"id" yaml:"id"`
	Prompt         string `json:"prompt" yaml:"prompt"`
	Answer         string `json:"answer" yaml:"-"`
	IsCompleted    bool   `json:"isCompleted" yaml:"-"`
	FollowUpPrompt string `json:"followUpPrompt,omitempty" yaml:"followUpPrompt,omitempty"` // Empty means no follow-up stage
	FollowUpAnswer string `json:"followUpAnswer,omitempty" yaml:"-"`
	ShowFollowUp   bool   `json:"showFollowUp" yaml:"-"`
	HasMessage     bool   `json:"hasMessage" yaml:"-"` // Message panel open, cosmetic
}

// HasFollowUp reports whether the question carries a follow-up stage
func (q *Question) HasFollowUp() bool {
	return q.FollowUpPrompt != ""
}
