package wizard

import (
	"context"
	"errors"
	"liveexperience/internal/model"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain ensures follow-up tasks never outlive their session.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu     sync.Mutex
	events []model.Notification
}

func (r *recorder) Notify(_ string, n model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, n)
}

func (r *recorder) kinds() []model.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.NotificationKind, len(r.events))
	for i, n := range r.events {
		out[i] = n.Kind
	}
	return out
}

// gatedFollowUp blocks until released, so tests can observe isSaving
type gatedFollowUp struct {
	release chan struct{}
	prompt  string
	err     error
}

func newGated() *gatedFollowUp {
	return &gatedFollowUp{release: make(chan struct{})}
}

func (g *gatedFollowUp) Generate(ctx context.Context, q model.Question) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-g.release:
		return g.prompt, g.err
	}
}

func int64p(v int64) *int64       { return &v }
func float64p(v float64) *float64 { return &v }

func validBusiness() model.BusinessDetails {
	return model.BusinessDetails{
		Name:               "Acme Coffee",
		CustomerCount:      int64p(1200),
		AnnualRevenue:      float64p(850000),
		GrossMarginPercent: float64p(62.5),
	}
}

func newTestSession(t *testing.T, gen FollowUpGenerator, n Notifier) *Session {
	t.Helper()
	s := NewSession(context.Background(), DefaultCatalog(), Options{
		ID:        "s1",
		EventID:   "miami",
		FollowUps: gen,
		Notifier:  n,
		Logger:    zerolog.Nop(),
	})
	t.Cleanup(s.Close)
	return s
}

// questioningSession returns a session already at question 1
func questioningSession(t *testing.T, gen FollowUpGenerator, n Notifier) *Session {
	t.Helper()
	s := newTestSession(t, gen, n)
	require.NoError(t, s.Unlock("FFA-2025"))
	require.NoError(t, s.SubmitBusinessDetails(validBusiness()))
	return s
}

func TestCanAccess(t *testing.T) {
	for current := -2; current <= 5; current++ {
		for q := -2; q <= 5; q++ {
			assert.Equal(t, q <= current, CanAccess(q, current), "q=%d current=%d", q, current)
		}
	}
}

func TestNewSession_StartsLocked(t *testing.T) {
	s := newTestSession(t, nil, nil)
	st := s.Snapshot()

	assert.Equal(t, model.StageLocked, st.Stage)
	assert.Equal(t, 0, st.CurrentQuestionID)
	assert.Nil(t, st.BusinessDetails)
	require.Len(t, st.Questions, 3)
	for _, q := range st.Questions {
		assert.Empty(t, q.Answer)
		assert.False(t, q.IsCompleted)
		assert.False(t, q.ShowFollowUp)
	}
}

func TestNewSession_PreSeededUnlock(t *testing.T) {
	s := NewSession(context.Background(), DefaultCatalog(), Options{ID: "s2", Unlocked: true, Logger: zerolog.Nop()})
	defer s.Close()

	assert.Equal(t, model.StageBusinessDetails, s.Snapshot().Stage)
	assert.ErrorIs(t, s.Unlock("code"), ErrWrongStage)
}

func TestUnlock_BlankCode(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, nil, rec)

	err := s.Unlock("   ")
	require.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "code", ve.Field)
	assert.Equal(t, model.StageLocked, s.Snapshot().Stage)
	assert.Equal(t, []model.NotificationKind{model.NotifyValidationError}, rec.kinds())
}

func TestUnlock_Success(t *testing.T) {
	rec := &recorder{}
	s := newTestSession(t, nil, rec)

	require.NoError(t, s.Unlock("FFA-2025"))
	assert.Equal(t, model.StageBusinessDetails, s.Snapshot().Stage)
	assert.Equal(t, []model.NotificationKind{model.NotifyUnlocked}, rec.kinds())
}

func TestSubmitBusinessDetails_Validation(t *testing.T) {
	cases := map[string]func(*model.BusinessDetails){
		"name":               func(d *model.BusinessDetails) { d.Name = "  " },
		"customerCount":      func(d *model.BusinessDetails) { d.CustomerCount = nil },
		"annualRevenue":      func(d *model.BusinessDetails) { d.AnnualRevenue = nil },
		"grossMarginPercent": func(d *model.BusinessDetails) { d.GrossMarginPercent = nil },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			s := newTestSession(t, nil, nil)
			require.NoError(t, s.Unlock("code"))

			d := validBusiness()
			mutate(&d)
			err := s.SubmitBusinessDetails(d)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, field, ve.Field)
			st := s.Snapshot()
			assert.Equal(t, model.StageBusinessDetails, st.Stage)
			assert.Nil(t, st.BusinessDetails)
		})
	}
}

func TestSubmitBusinessDetails_StartsQuestioning(t *testing.T) {
	s := questioningSession(t, nil, nil)
	st := s.Snapshot()

	assert.Equal(t, model.StageQuestioning, st.Stage)
	assert.Equal(t, 1, st.CurrentQuestionID)
	require.NotNil(t, st.BusinessDetails)
	assert.Equal(t, "Acme Coffee", st.BusinessDetails.Name)
	assert.Equal(t, int64(1200), *st.BusinessDetails.CustomerCount)

	// Details are immutable once submitted
	again := validBusiness()
	again.Name = "Other"
	assert.ErrorIs(t, s.SubmitBusinessDetails(again), ErrWrongStage)
	assert.Equal(t, "Acme Coffee", s.Snapshot().BusinessDetails.Name)
}

func TestOperationsBeforeQuestioning(t *testing.T) {
	s := newTestSession(t, nil, nil)

	assert.ErrorIs(t, s.SetAnswer("a"), ErrWrongStage)
	assert.ErrorIs(t, s.SetFollowUpAnswer("a"), ErrWrongStage)
	assert.ErrorIs(t, s.ToggleMessage(), ErrWrongStage)
	assert.ErrorIs(t, s.SelectQuestion(1), ErrWrongStage)
	_, err := s.SaveAndAdvance()
	assert.ErrorIs(t, err, ErrWrongStage)
	assert.ErrorIs(t, s.SubmitBusinessDetails(validBusiness()), ErrWrongStage)
}

func TestSetAnswer_Idempotent(t *testing.T) {
	s := questioningSession(t, nil, nil)

	require.NoError(t, s.SetAnswer("I wish I had more repeat customers"))
	first := s.Snapshot()
	require.NoError(t, s.SetAnswer("I wish I had more repeat customers"))
	second := s.Snapshot()

	ignoreTimes := cmpopts.IgnoreFields(model.WizardState{}, "UpdatedAt")
	if diff := cmp.Diff(first, second, ignoreTimes); diff != "" {
		t.Fatalf("state changed on repeated SetAnswer (-first +second):\n%s", diff)
	}
}

func TestSaveAndAdvance_BlankAnswer(t *testing.T) {
	rec := &recorder{}
	s := questioningSession(t, nil, rec)
	require.NoError(t, s.SetAnswer(" \n\t "))
	before := s.Snapshot()

	outcome, err := s.SaveAndAdvance()
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, outcome)

	after := s.Snapshot()
	assert.False(t, after.Questions[0].IsCompleted)
	assert.Equal(t, before.CurrentQuestionID, after.CurrentQuestionID)
	assert.Contains(t, rec.kinds(), model.NotifyValidationError)
}

func TestSaveAndAdvance_WithoutFollowUp(t *testing.T) {
	s := questioningSession(t, nil, nil)
	require.NoError(t, s.SetAnswer("more customers"))

	outcome, err := s.SaveAndAdvance()
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeAdvanced, outcome)

	st := s.Snapshot()
	assert.True(t, st.Questions[0].IsCompleted)
	assert.Equal(t, 2, st.CurrentQuestionID)
	assert.False(t, st.IsSaving)
}

func TestSaveAndAdvance_FollowUpTwoStep(t *testing.T) {
	rec := &recorder{}
	gen := newGated()
	s := questioningSession(t, gen, rec)

	for _, answer := range []string{"a", "b"} {
		require.NoError(t, s.SetAnswer(answer))
		_, err := s.SaveAndAdvance()
		require.NoError(t, err)
	}

	require.NoError(t, s.SetAnswer("c"))
	outcome, err := s.SaveAndAdvance()
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeFollowUpPending, outcome)

	st := s.Snapshot()
	assert.True(t, st.IsSaving)
	assert.False(t, st.Questions[2].ShowFollowUp)

	// A second save while generating is rejected without mutation
	_, err = s.SaveAndAdvance()
	assert.ErrorIs(t, err, ErrSaveInProgress)

	close(gen.release)
	s.Wait()

	st = s.Snapshot()
	q3 := st.Questions[2]
	assert.False(t, st.IsSaving)
	assert.True(t, q3.ShowFollowUp)
	assert.False(t, q3.IsCompleted)
	assert.Equal(t, 3, st.CurrentQuestionID)
	assert.Equal(t, model.StageQuestioning, st.Stage)

	require.NoError(t, s.SetFollowUpAnswer("d"))
	outcome, err = s.SaveAndAdvance()
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeCompleted, outcome)

	st = s.Snapshot()
	assert.True(t, st.Questions[2].IsCompleted)
	assert.Equal(t, "d", st.Questions[2].FollowUpAnswer)
	assert.Equal(t, model.StageComplete, st.Stage)
	assert.Equal(t, 3, st.CurrentQuestionID)

	assert.Equal(t, []model.NotificationKind{
		model.NotifyUnlocked,
		model.NotifyBusinessSaved,
		model.NotifyAnswerSaved,
		model.NotifyAnswerSaved,
		model.NotifyFollowUpPending,
		model.NotifyFollowUpReady,
		model.NotifyWizardComplete,
	}, rec.kinds())
}

func TestSaveAndAdvance_Scenario(t *testing.T) {
	s := questioningSession(t, DelayedFollowUp{Delay: time.Millisecond}, nil)

	require.NoError(t, s.SetAnswer("a"))
	_, err := s.SaveAndAdvance()
	require.NoError(t, err)
	st := s.Snapshot()
	assert.True(t, st.Questions[0].IsCompleted)
	assert.Equal(t, 2, st.CurrentQuestionID)

	require.NoError(t, s.SetAnswer("b"))
	_, err = s.SaveAndAdvance()
	require.NoError(t, err)
	st = s.Snapshot()
	assert.True(t, st.Questions[1].IsCompleted)
	assert.Equal(t, 3, st.CurrentQuestionID)

	require.NoError(t, s.SetAnswer("c"))
	_, err = s.SaveAndAdvance()
	require.NoError(t, err)
	s.Wait()
	st = s.Snapshot()
	assert.True(t, st.Questions[2].ShowFollowUp)
	assert.False(t, st.Questions[2].IsCompleted)
	assert.Equal(t, 3, st.CurrentQuestionID)

	require.NoError(t, s.SetFollowUpAnswer("d"))
	_, err = s.SaveAndAdvance()
	require.NoError(t, err)
	st = s.Snapshot()
	assert.True(t, st.Questions[2].IsCompleted)
	assert.Equal(t, model.StageComplete, st.Stage)

	_, err = s.SaveAndAdvance()
	assert.ErrorIs(t, err, ErrWrongStage)
}

func TestSaveAndAdvance_FollowUpNotRecheckedAfterDelay(t *testing.T) {
	gen := newGated()
	cat, err := NewCatalog([]model.Question{{ID: 1, Prompt: "p", FollowUpPrompt: "f"}})
	require.NoError(t, err)
	s := NewSession(context.Background(), cat, Options{ID: "s", Unlocked: true, FollowUps: gen, Logger: zerolog.Nop()})
	defer s.Close()
	require.NoError(t, s.SubmitBusinessDetails(validBusiness()))

	require.NoError(t, s.SetAnswer("first"))
	_, err = s.SaveAndAdvance()
	require.NoError(t, err)

	// Clearing the answer mid-flight does not stop the reveal
	require.NoError(t, s.SetAnswer(""))
	close(gen.release)
	s.Wait()

	st := s.Snapshot()
	assert.True(t, st.Questions[0].ShowFollowUp)
	assert.False(t, st.Questions[0].IsCompleted)
}

func TestSaveAndAdvance_GeneratedPromptReplacesCatalogText(t *testing.T) {
	gen := newGated()
	gen.prompt = "Which of those traits matters most to you?"
	s := questioningSession(t, gen, nil)
	require.NoError(t, s.SelectQuestion(1))

	for _, a := range []string{"a", "b", "c"} {
		require.NoError(t, s.SetAnswer(a))
		_, err := s.SaveAndAdvance()
		require.NoError(t, err)
	}
	close(gen.release)
	s.Wait()

	assert.Equal(t, gen.prompt, s.Snapshot().Questions[2].FollowUpPrompt)
}

func TestSaveAndAdvance_FollowUpFailure(t *testing.T) {
	rec := &recorder{}
	gen := newGated()
	gen.err = errors.New("model unavailable")
	s := questioningSession(t, gen, rec)

	for _, a := range []string{"a", "b", "c"} {
		require.NoError(t, s.SetAnswer(a))
		_, err := s.SaveAndAdvance()
		require.NoError(t, err)
	}
	close(gen.release)
	s.Wait()

	st := s.Snapshot()
	assert.False(t, st.IsSaving)
	assert.False(t, st.Questions[2].ShowFollowUp)
	assert.Contains(t, rec.kinds(), model.NotifyFollowUpFailed)
}

func TestSelectQuestion(t *testing.T) {
	rec := &recorder{}
	s := questioningSession(t, nil, rec)
	require.NoError(t, s.SetAnswer("a"))
	_, err := s.SaveAndAdvance()
	require.NoError(t, err)

	before := s.Snapshot()
	for _, id := range []int{3, 4, 0, -1} {
		err := s.SelectQuestion(id)
		require.ErrorIs(t, err, ErrAccessDenied, "id=%d", id)
	}
	assert.Equal(t, before.CurrentQuestionID, s.Snapshot().CurrentQuestionID)
	assert.Contains(t, rec.kinds(), model.NotifyAccessDenied)

	require.NoError(t, s.SelectQuestion(1))
	assert.Equal(t, 1, s.Snapshot().CurrentQuestionID)

	// Once back on question 1, question 2 is gated again until saving advances
	assert.ErrorIs(t, s.SelectQuestion(2), ErrAccessDenied)
	_, err = s.SaveAndAdvance()
	require.NoError(t, err)
	assert.Equal(t, 2, s.Snapshot().CurrentQuestionID)
	assert.True(t, s.Snapshot().Questions[0].IsCompleted)
}

func TestToggleMessage(t *testing.T) {
	s := questioningSession(t, nil, nil)

	require.NoError(t, s.ToggleMessage())
	assert.True(t, s.Snapshot().Questions[0].HasMessage)
	require.NoError(t, s.ToggleMessage())
	assert.False(t, s.Snapshot().Questions[0].HasMessage)
}

func TestClose_CancelsFollowUp(t *testing.T) {
	rec := &recorder{}
	gen := newGated()
	s := questioningSession(t, gen, rec)
	for _, a := range []string{"a", "b", "c"} {
		require.NoError(t, s.SetAnswer(a))
		_, err := s.SaveAndAdvance()
		require.NoError(t, err)
	}

	s.Close()

	assert.True(t, s.Closed())
	assert.False(t, s.Snapshot().Questions[2].ShowFollowUp)
	assert.NotContains(t, rec.kinds(), model.NotifyFollowUpReady)
	assert.ErrorIs(t, s.SetAnswer("x"), ErrSessionClosed)
}

func TestClose_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := newGated()
	s := NewSession(ctx, DefaultCatalog(), Options{ID: "p", Unlocked: true, FollowUps: gen, Logger: zerolog.Nop()})
	defer s.Close()
	require.NoError(t, s.SubmitBusinessDetails(validBusiness()))
	require.NoError(t, s.SelectQuestion(1))

	for _, a := range []string{"a", "b", "c"} {
		require.NoError(t, s.SetAnswer(a))
		_, err := s.SaveAndAdvance()
		require.NoError(t, err)
	}
	cancel()
	s.Wait()

	st := s.Snapshot()
	assert.False(t, st.IsSaving)
	assert.False(t, st.Questions[2].ShowFollowUp)
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := questioningSession(t, nil, nil)
	st := s.Snapshot()
	st.Questions[0].Answer = "tampered"
	*st.BusinessDetails.CustomerCount = 1

	fresh := s.Snapshot()
	assert.Empty(t, fresh.Questions[0].Answer)
	assert.Equal(t, int64(1200), *fresh.BusinessDetails.CustomerCount)
	assert.Equal(t, 1, fresh.CurrentQuestion().ID)
}
