package wizard

import (
	"context"
	"errors"
	"liveexperience/internal/model"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures a new Session
type Options struct {
	ID        string
	EventID   string
	Unlocked  bool // Skip the activation step, set when the client unlocked before a reload
	FollowUps FollowUpGenerator
	Notifier  Notifier
	Logger    zerolog.Logger
	Now       func() time.Time
}

// Session owns one wizard run: stage, question answers and the current
// question pointer. All mutations are serialized; the follow-up task is the
// only writer besides the caller and is cancelled by Close.
type Session struct {
	id        string
	eventID   string
	catalog   *Catalog
	followUps FollowUpGenerator
	notifier  Notifier
	log       zerolog.Logger
	now       func() time.Time

	mu        sync.Mutex
	stage     model.Stage
	questions []model.Question
	currentID int
	business  *model.BusinessDetails
	isSaving  bool
	closed    bool
	startedAt time.Time
	updatedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup
}

// NewSession starts a session from a fresh copy of the catalog.
// The session lives until Close is called or parent is cancelled.
func NewSession(parent context.Context, catalog *Catalog, opts Options) *Session {
	if opts.FollowUps == nil {
		opts.FollowUps = DelayedFollowUp{Delay: DefaultFollowUpDelay}
	}
	if opts.Notifier == nil {
		opts.Notifier = discardNotifier{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ctx, cancel := context.WithCancel(parent)
	now := opts.Now()
	s := &Session{
		id:        opts.ID,
		eventID:   opts.EventID,
		catalog:   catalog,
		followUps: opts.FollowUps,
		notifier:  opts.Notifier,
		log:       opts.Logger.With().Str("session", opts.ID).Logger(),
		now:       opts.Now,
		stage:     model.StageLocked,
		questions: catalog.Clone(),
		startedAt: now,
		updatedAt: now,
		ctx:       ctx,
		cancel:    cancel,
	}
	if opts.Unlocked {
		s.stage = model.StageBusinessDetails
	}
	return s
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// EventID returns the live event this session belongs to
func (s *Session) EventID() string {
	return s.eventID
}

// mutate runs fn under the lock and emits the resulting notification after
// releasing it. Errors from fn leave state untouched.
func (s *Session) mutate(fn func() (*model.Notification, error)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	n, err := fn()
	if err == nil {
		s.updatedAt = s.now()
	}
	s.mu.Unlock()

	if err != nil {
		n = failureNotice(err, s.now())
	}
	if n != nil {
		s.notifier.Notify(s.id, *n)
	}
	return err
}

func failureNotice(err error, at time.Time) *model.Notification {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return &model.Notification{Kind: model.NotifyValidationError, Message: ve.Message, At: at}
	}
	var ae *AccessDeniedError
	if errors.As(err, &ae) {
		return &model.Notification{Kind: model.NotifyAccessDenied, Message: ae.Error(), QuestionID: ae.QuestionID, At: at}
	}
	return nil
}

func (s *Session) notice(kind model.NotificationKind, msg string, questionID int) *model.Notification {
	return &model.Notification{Kind: kind, Message: msg, QuestionID: questionID, At: s.now()}
}

// Unlock moves a locked session to business details. The code must not be blank.
func (s *Session) Unlock(code string) error {
	return s.mutate(func() (*model.Notification, error) {
		if s.stage != model.StageLocked {
			return nil, ErrWrongStage
		}
		if strings.TrimSpace(code) == "" {
			return nil, invalid("code", "Please enter an activation code")
		}
		s.stage = model.StageBusinessDetails
		s.log.Info().Msg("experience unlocked")
		return s.notice(model.NotifyUnlocked, "Experience unlocked successfully!", 0), nil
	})
}

// SubmitBusinessDetails stores the details once and starts questioning at the
// first catalog question.
func (s *Session) SubmitBusinessDetails(details model.BusinessDetails) error {
	return s.mutate(func() (*model.Notification, error) {
		if s.stage != model.StageBusinessDetails {
			return nil, ErrWrongStage
		}
		if err := validateBusiness(details); err != nil {
			return nil, err
		}
		stored := copyBusiness(details)
		stored.Name = strings.TrimSpace(stored.Name)
		s.business = stored
		s.stage = model.StageQuestioning
		s.currentID = s.catalog.FirstID()
		s.log.Info().Str("business", stored.Name).Msg("business details saved")
		return s.notice(model.NotifyBusinessSaved, "Business details saved successfully!", 0), nil
	})
}

func validateBusiness(d model.BusinessDetails) error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return invalid("name", "Please enter your business name")
	case d.CustomerCount == nil:
		return invalid("customerCount", "Please enter your number of customers")
	case d.AnnualRevenue == nil:
		return invalid("annualRevenue", "Please enter your annual revenue")
	case d.GrossMarginPercent == nil:
		return invalid("grossMarginPercent", "Please enter your gross margin")
	}
	return nil
}

// SetAnswer overwrites the current question's answer. Blank is allowed here.
func (s *Session) SetAnswer(text string) error {
	return s.mutate(func() (*model.Notification, error) {
		q, err := s.current()
		if err != nil {
			return nil, err
		}
		q.Answer = text
		return nil, nil
	})
}

// SetFollowUpAnswer overwrites the current question's follow-up answer
func (s *Session) SetFollowUpAnswer(text string) error {
	return s.mutate(func() (*model.Notification, error) {
		q, err := s.current()
		if err != nil {
			return nil, err
		}
		q.FollowUpAnswer = text
		return nil, nil
	})
}

// ToggleMessage flips the message panel flag on the current question
func (s *Session) ToggleMessage() error {
	return s.mutate(func() (*model.Notification, error) {
		q, err := s.current()
		if err != nil {
			return nil, err
		}
		q.HasMessage = !q.HasMessage
		return nil, nil
	})
}

// SelectQuestion moves the pointer to an already reached question
func (s *Session) SelectQuestion(id int) error {
	return s.mutate(func() (*model.Notification, error) {
		if s.stage != model.StageQuestioning {
			return nil, ErrWrongStage
		}
		if s.indexOf(id) < 0 || !CanAccess(id, s.currentID) {
			return nil, &AccessDeniedError{QuestionID: id, CurrentID: s.currentID}
		}
		s.currentID = id
		return nil, nil
	})
}

// SaveAndAdvance saves the current answer. A question with an unrevealed
// follow-up starts follow-up generation and stays current; otherwise the
// question is completed and the pointer advances, or the wizard completes
// on the last question.
func (s *Session) SaveAndAdvance() (model.SaveOutcome, error) {
	var outcome model.SaveOutcome
	err := s.mutate(func() (*model.Notification, error) {
		q, err := s.current()
		if err != nil {
			return nil, err
		}
		if s.isSaving {
			return nil, ErrSaveInProgress
		}
		if strings.TrimSpace(q.Answer) == "" {
			return nil, invalid("answer", "Please provide an answer before saving")
		}

		if q.HasFollowUp() && !q.ShowFollowUp {
			s.isSaving = true
			s.tasks.Add(1)
			go s.runFollowUp(*q)
			outcome = model.OutcomeFollowUpPending
			s.log.Debug().Int("question", q.ID).Msg("follow-up generation started")
			return s.notice(model.NotifyFollowUpPending, "Generating a follow-up question...", q.ID), nil
		}

		q.IsCompleted = true
		if q.ID == s.catalog.LastID() {
			s.stage = model.StageComplete
			outcome = model.OutcomeCompleted
			s.log.Info().Msg("workbook complete")
			return s.notice(model.NotifyWizardComplete, "Workbook complete!", q.ID), nil
		}
		s.currentID = q.ID + 1
		outcome = model.OutcomeAdvanced
		return s.notice(model.NotifyAnswerSaved, "Answer saved successfully!", q.ID), nil
	})
	return outcome, err
}

// runFollowUp reveals the follow-up for q once generation finishes. It does
// not re-check the answer and never completes or advances.
func (s *Session) runFollowUp(q model.Question) {
	defer s.tasks.Done()

	prompt, genErr := s.followUps.Generate(s.ctx, q)

	s.mu.Lock()
	s.isSaving = false
	if s.closed || s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	var n *model.Notification
	if genErr != nil {
		s.log.Error().Err(genErr).Int("question", q.ID).Msg("follow-up generation failed")
		n = s.notice(model.NotifyFollowUpFailed, "Could not generate a follow-up, please save again", q.ID)
	} else {
		stored := &s.questions[s.indexOf(q.ID)]
		if prompt != "" {
			stored.FollowUpPrompt = prompt
		}
		stored.ShowFollowUp = true
		n = s.notice(model.NotifyFollowUpReady, "Follow-up question ready", q.ID)
	}
	s.updatedAt = s.now()
	s.mu.Unlock()

	s.notifier.Notify(s.id, *n)
}

// Wait blocks until no follow-up task is outstanding
func (s *Session) Wait() {
	s.tasks.Wait()
}

// Close ends the session, cancelling any outstanding follow-up task and
// waiting for it to return. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	already := s.closed
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.tasks.Wait()
	if !already {
		s.log.Debug().Msg("session closed")
	}
}

// Closed reports whether Close has been called
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// LastActivity returns when the session last changed
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Snapshot returns a deep copy of the session state
func (s *Session) Snapshot() *model.WizardState {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions := make([]model.Question, len(s.questions))
	copy(questions, s.questions)

	var business *model.BusinessDetails
	if s.business != nil {
		business = copyBusiness(*s.business)
	}

	return &model.WizardState{
		SessionID:         s.id,
		EventID:           s.eventID,
		Stage:             s.stage,
		CurrentQuestionID: s.currentID,
		IsSaving:          s.isSaving,
		BusinessDetails:   business,
		Questions:         questions,
		StartedAt:         s.startedAt,
		UpdatedAt:         s.updatedAt,
	}
}

// current returns the question under the pointer; caller holds mu
func (s *Session) current() (*model.Question, error) {
	if s.stage != model.StageQuestioning {
		return nil, ErrWrongStage
	}
	return &s.questions[s.indexOf(s.currentID)], nil
}

func (s *Session) indexOf(id int) int {
	for i := range s.questions {
		if s.questions[i].ID == id {
			return i
		}
	}
	return -1
}

func copyBusiness(d model.BusinessDetails) *model.BusinessDetails {
	out := &model.BusinessDetails{Name: d.Name}
	if d.CustomerCount != nil {
		v := *d.CustomerCount
		out.CustomerCount = &v
	}
	if d.AnnualRevenue != nil {
		v := *d.AnnualRevenue
		out.AnnualRevenue = &v
	}
	if d.GrossMarginPercent != nil {
		v := *d.GrossMarginPercent
		out.GrossMarginPercent = &v
	}
	return out
}
