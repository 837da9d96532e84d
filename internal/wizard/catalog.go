package wizard

import (
	"fmt"
	"liveexperience/internal/model"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the immutable, ordered question template.
// Ids are contiguous and ascending starting at 1.
type Catalog struct {
	questions []model.Question
}

type catalogFile struct {
	Questions []model.Question `yaml:"questions"`
}

// DefaultCatalog returns the live experience workbook questions
func DefaultCatalog() *Catalog {
	return &Catalog{questions: []model.Question{
		{
			ID:     1,
			Prompt: `What are some "I Wish" statements related to the number of customers that you have?`,
		},
		{
			ID:     2,
			Prompt: `What are some "I wish" statements related to your P&L statement?`,
		},
		{
			ID:             3,
			Prompt:         "Describe your ideal customer in as much detail as possible.",
			FollowUpPrompt: "Where does this customer spend their time, and what would make them choose you over the alternatives?",
		},
	}}
}

// NewCatalog validates and wraps a question list
func NewCatalog(questions []model.Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("catalog has no questions")
	}
	out := make([]model.Question, len(questions))
	for i, q := range questions {
		if q.ID != i+1 {
			return nil, fmt.Errorf("question at position %d has id %d, expected %d", i, q.ID, i+1)
		}
		if q.Prompt == "" {
			return nil, fmt.Errorf("question %d has no prompt", q.ID)
		}
		// Only the template fields survive, answer state always starts empty
		out[i] = model.Question{
			ID:             q.ID,
			Prompt:         q.Prompt,
			FollowUpPrompt: q.FollowUpPrompt,
		}
	}
	return &Catalog{questions: out}, nil
}

// ParseCatalog decodes a YAML catalog document
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return NewCatalog(f.Questions)
}

// LoadCatalog reads a YAML catalog from disk
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// Len returns the number of questions
func (c *Catalog) Len() int {
	return len(c.questions)
}

// FirstID returns the lowest question id
func (c *Catalog) FirstID() int {
	return c.questions[0].ID
}

// LastID returns the highest question id
func (c *Catalog) LastID() int {
	return c.questions[len(c.questions)-1].ID
}

// Clone returns a fresh working copy with empty answer state
func (c *Catalog) Clone() []model.Question {
	out := make([]model.Question, len(c.questions))
	copy(out, c.questions)
	return out
}
