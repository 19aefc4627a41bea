package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"quizbot/internal/corpus"
	"quizbot/internal/model"
)

type fakeStore struct {
	questions map[string]string
	scores    map[string]int64

	getQuestionErr error
	setQuestionErr error
	incrErr        error
	getScoreErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		questions: make(map[string]string),
		scores:    make(map[string]int64),
	}
}

func (f *fakeStore) GetQuestion(_ context.Context, key model.SessionKey) (string, bool, error) {
	if f.getQuestionErr != nil {
		return "", false, f.getQuestionErr
	}
	q, ok := f.questions[key.String()]
	return q, ok, nil
}

func (f *fakeStore) SetQuestion(_ context.Context, key model.SessionKey, question string) error {
	if f.setQuestionErr != nil {
		return f.setQuestionErr
	}
	f.questions[key.String()] = question
	return nil
}

func (f *fakeStore) ClearQuestion(_ context.Context, key model.SessionKey) error {
	delete(f.questions, key.String())
	return nil
}

func (f *fakeStore) IncrScore(_ context.Context, key model.SessionKey) (int64, error) {
	if f.incrErr != nil {
		return 0, f.incrErr
	}
	f.scores[key.String()]++
	return f.scores[key.String()], nil
}

func (f *fakeStore) GetScore(_ context.Context, key model.SessionKey) (int64, error) {
	if f.getScoreErr != nil {
		return 0, f.getScoreErr
	}
	return f.scores[key.String()], nil
}

type fakeAttempts struct {
	records   []*model.AttemptRecord
	createErr error
}

func (f *fakeAttempts) Create(_ context.Context, attempt *model.AttemptRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.records = append(f.records, attempt)
	return nil
}

func (f *fakeAttempts) CountByUser(_ context.Context, channel model.Channel, userID string) (int64, error) {
	var n int64
	for _, r := range f.records {
		if r.Channel == channel && r.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeAttempts) Stats(_ context.Context) (*model.AttemptStats, error) {
	stats := &model.AttemptStats{Total: int64(len(f.records))}
	for _, r := range f.records {
		switch r.Outcome {
		case model.OutcomeCorrect:
			stats.Correct++
		case model.OutcomeGaveUp:
			stats.GaveUp++
		}
	}
	return stats, nil
}

var testKey = model.SessionKey{Channel: model.ChannelTelegram, UserID: "42"}

func newEngine(pairs map[string]string) (*QuizService, *fakeStore, *fakeAttempts) {
	store := newFakeStore()
	attempts := &fakeAttempts{}
	return NewQuizService(corpus.New(pairs), store, attempts), store, attempts
}

func act(t *testing.T, svc *QuizService, action model.Action) model.Reply {
	t.Helper()
	reply, err := svc.HandleAction(context.Background(), testKey, action)
	require.NoError(t, err)
	return reply
}

func TestStartGreets(t *testing.T) {
	svc, _, _ := newEngine(map[string]string{"2+2=?": "4"})

	reply := act(t, svc, model.Action{Type: model.ActionStart})
	require.Equal(t, msgGreeting, reply.Text)
	require.Equal(t, model.StateNewQuestion, reply.State)
}

func TestEmptyCorpusNeverIssuesQuestions(t *testing.T) {
	svc, store, _ := newEngine(map[string]string{})

	reply := act(t, svc, model.Action{Type: model.ActionStart})
	require.Equal(t, msgNoQuestions, reply.Text)

	reply = act(t, svc, model.Action{Type: model.ActionNewQuestion})
	require.Equal(t, msgNoQuestions, reply.Text)
	require.Equal(t, model.StateNewQuestion, reply.State)
	require.Empty(t, store.questions)
}

func TestNewQuestionStoresAndAsks(t *testing.T) {
	svc, store, _ := newEngine(map[string]string{"2+2=?": "4"})

	reply := act(t, svc, model.Action{Type: model.ActionNewQuestion})
	require.Equal(t, questionReply("2+2=?"), reply.Text)
	require.Equal(t, model.StateAnswerAttempt, reply.State)
	require.Equal(t, "2+2=?", store.questions[testKey.String()])
}

func TestRepeatedNewQuestionOverwritesWithoutScoring(t *testing.T) {
	svc, store, _ := newEngine(map[string]string{"2+2=?": "4"})

	for i := 0; i < 5; i++ {
		act(t, svc, model.Action{Type: model.ActionNewQuestion})
	}
	require.Equal(t, "2+2=?", store.questions[testKey.String()])
	require.Zero(t, store.scores[testKey.String()])
}

func TestAnswerMatchingIsCaseInsensitiveExact(t *testing.T) {
	cases := []struct {
		given   string
		correct bool
	}{
		{"Paris", true},
		{"paris", true},
		{"PARIS", true},
		{"pariss", false},
		{" Paris", false}, // no trimming
		{"Pari", false},
	}

	for _, tc := range cases {
		svc, store, _ := newEngine(map[string]string{"Столица Франции?": "Paris"})
		act(t, svc, model.Action{Type: model.ActionNewQuestion})

		reply := act(t, svc, model.Action{Type: model.ActionSubmitAnswer, Text: tc.given})
		if tc.correct {
			require.Equal(t, msgCorrectAnswer, reply.Text, tc.given)
			require.Equal(t, model.StateNewQuestion, reply.State)
			require.Equal(t, int64(1), store.scores[testKey.String()])
			_, active := store.questions[testKey.String()]
			require.False(t, active)
		} else {
			require.Equal(t, msgIncorrectAnswer, reply.Text, tc.given)
			require.Equal(t, model.StateAnswerAttempt, reply.State)
			require.Zero(t, store.scores[testKey.String()])
		}
	}
}

func TestAnswerWithoutActiveQuestion(t *testing.T) {
	svc, store, _ := newEngine(map[string]string{"2+2=?": "4"})

	reply := act(t, svc, model.Action{Type: model.ActionSubmitAnswer, Text: "4"})
	require.Equal(t, msgPressNewButton, reply.Text)
	require.Equal(t, model.StateNewQuestion, reply.State)
	require.Zero(t, store.scores[testKey.String()])
}

func TestGiveUpRevealsAndIssuesNext(t *testing.T) {
	svc, store, _ := newEngine(map[string]string{"2+2=?": "4"})
	act(t, svc, model.Action{Type: model.ActionNewQuestion})

	reply := act(t, svc, model.Action{Type: model.ActionGiveUp})
	require.Contains(t, reply.Text, revealReply("4"))
	require.Contains(t, reply.Text, questionReply("2+2=?"))
	require.Equal(t, model.StateAnswerAttempt, reply.State)
	require.Equal(t, "2+2=?", store.questions[testKey.String()])
	// No penalty, no award.
	require.Zero(t, store.scores[testKey.String()])
}

func TestGiveUpWithoutActiveQuestionActsLikeNewQuestion(t *testing.T) {
	svc, store, _ := newEngine(map[string]string{"2+2=?": "4"})

	reply := act(t, svc, model.Action{Type: model.ActionGiveUp})
	require.Equal(t, questionReply("2+2=?"), reply.Text)
	require.Equal(t, model.StateAnswerAttempt, reply.State)
	require.Equal(t, "2+2=?", store.questions[testKey.String()])
}

func TestShowScoreIsSideEffectFree(t *testing.T) {
	svc, store, _ := newEngine(map[string]string{"2+2=?": "4"})
	act(t, svc, model.Action{Type: model.ActionNewQuestion})
	act(t, svc, model.Action{Type: model.ActionSubmitAnswer, Text: "4"})
	act(t, svc, model.Action{Type: model.ActionNewQuestion})

	for i := 0; i < 3; i++ {
		reply := act(t, svc, model.Action{Type: model.ActionShowScore})
		require.Equal(t, scoreReply(1), reply.Text)
		require.Equal(t, model.StateAnswerAttempt, reply.State)
	}
	require.Equal(t, int64(1), store.scores[testKey.String()])
	require.Equal(t, "2+2=?", store.questions[testKey.String()])
}

func TestScoreCountsOnlyCorrectAnswers(t *testing.T) {
	svc, store, _ := newEngine(map[string]string{"2+2=?": "4"})

	// 3 correct answers interleaved with misses and give-ups.
	for i := 0; i < 3; i++ {
		act(t, svc, model.Action{Type: model.ActionNewQuestion})
		act(t, svc, model.Action{Type: model.ActionSubmitAnswer, Text: "5"})
		act(t, svc, model.Action{Type: model.ActionGiveUp})
		act(t, svc, model.Action{Type: model.ActionSubmitAnswer, Text: "4"})
	}
	require.Equal(t, int64(3), store.scores[testKey.String()])
}

func TestConversationScenario(t *testing.T) {
	svc, store, _ := newEngine(map[string]string{"2+2=?": "4"})

	reply := act(t, svc, model.Action{Type: model.ActionStart})
	require.Equal(t, msgGreeting, reply.Text)
	require.Equal(t, model.StateNewQuestion, reply.State)

	reply = act(t, svc, model.Action{Type: model.ActionNewQuestion})
	require.Equal(t, questionReply("2+2=?"), reply.Text)
	require.Equal(t, model.StateAnswerAttempt, reply.State)
	require.Equal(t, "2+2=?", store.questions[testKey.String()])

	reply = act(t, svc, model.Action{Type: model.ActionSubmitAnswer, Text: "5"})
	require.Equal(t, msgIncorrectAnswer, reply.Text)
	require.Equal(t, model.StateAnswerAttempt, reply.State)

	reply = act(t, svc, model.Action{Type: model.ActionSubmitAnswer, Text: "4"})
	require.Equal(t, msgCorrectAnswer, reply.Text)
	require.Equal(t, model.StateNewQuestion, reply.State)
	require.Equal(t, int64(1), store.scores[testKey.String()])

	reply = act(t, svc, model.Action{Type: model.ActionShowScore})
	require.Equal(t, scoreReply(1), reply.Text)
}

func TestSessionsAreIndependentAcrossChannels(t *testing.T) {
	svc, store, _ := newEngine(map[string]string{"2+2=?": "4"})
	vkKey := model.SessionKey{Channel: model.ChannelVK, UserID: "42"}

	ctx := context.Background()
	_, err := svc.HandleAction(ctx, testKey, model.Action{Type: model.ActionNewQuestion})
	require.NoError(t, err)
	_, err = svc.HandleAction(ctx, testKey, model.Action{Type: model.ActionSubmitAnswer, Text: "4"})
	require.NoError(t, err)

	require.Equal(t, int64(1), store.scores[testKey.String()])
	require.Zero(t, store.scores[vkKey.String()])
	_, active := store.questions[vkKey.String()]
	require.False(t, active)
}

func TestStoreFailureAbortsTransition(t *testing.T) {
	storeErr := errors.New("connection refused")

	svc, store, _ := newEngine(map[string]string{"2+2=?": "4"})
	store.setQuestionErr = storeErr
	_, err := svc.HandleAction(context.Background(), testKey, model.Action{Type: model.ActionNewQuestion})
	require.ErrorIs(t, err, storeErr)

	svc, store, _ = newEngine(map[string]string{"2+2=?": "4"})
	act(t, svc, model.Action{Type: model.ActionNewQuestion})
	store.incrErr = storeErr
	_, err = svc.HandleAction(context.Background(), testKey, model.Action{Type: model.ActionSubmitAnswer, Text: "4"})
	require.ErrorIs(t, err, storeErr)
	// Aborted transition left the question in place.
	require.Equal(t, "2+2=?", store.questions[testKey.String()])

	svc, store, _ = newEngine(map[string]string{"2+2=?": "4"})
	store.getScoreErr = storeErr
	_, err = svc.HandleAction(context.Background(), testKey, model.Action{Type: model.ActionShowScore})
	require.ErrorIs(t, err, storeErr)

	svc, store, _ = newEngine(map[string]string{"2+2=?": "4"})
	store.getQuestionErr = storeErr
	_, err = svc.HandleAction(context.Background(), testKey, model.Action{Type: model.ActionSubmitAnswer, Text: "4"})
	require.ErrorIs(t, err, storeErr)
}

func TestUnknownActionIsInvalid(t *testing.T) {
	svc, _, _ := newEngine(map[string]string{"2+2=?": "4"})

	_, err := svc.HandleAction(context.Background(), testKey, model.Action{Type: "DANCE"})
	require.ErrorIs(t, err, ErrInvalidAction)
}

func TestAttemptsAreLogged(t *testing.T) {
	svc, _, attempts := newEngine(map[string]string{"2+2=?": "4"})

	act(t, svc, model.Action{Type: model.ActionNewQuestion})
	act(t, svc, model.Action{Type: model.ActionSubmitAnswer, Text: "5"})
	act(t, svc, model.Action{Type: model.ActionGiveUp})
	act(t, svc, model.Action{Type: model.ActionSubmitAnswer, Text: "4"})

	require.Len(t, attempts.records, 3)
	require.Equal(t, model.OutcomeIncorrect, attempts.records[0].Outcome)
	require.Equal(t, "5", attempts.records[0].GivenAnswer)
	require.Equal(t, model.OutcomeGaveUp, attempts.records[1].Outcome)
	require.Equal(t, model.OutcomeCorrect, attempts.records[2].Outcome)
	for _, r := range attempts.records {
		require.Equal(t, testKey.Channel, r.Channel)
		require.Equal(t, testKey.UserID, r.UserID)
		require.Equal(t, "2+2=?", r.Question)
	}
}

func TestAttemptLogFailureDoesNotAffectTransition(t *testing.T) {
	svc, store, attempts := newEngine(map[string]string{"2+2=?": "4"})
	attempts.createErr = errors.New("mongo down")

	act(t, svc, model.Action{Type: model.ActionNewQuestion})
	reply := act(t, svc, model.Action{Type: model.ActionSubmitAnswer, Text: "4"})
	require.Equal(t, msgCorrectAnswer, reply.Text)
	require.Equal(t, int64(1), store.scores[testKey.String()])
}

func TestNilAttemptRepoIsAllowed(t *testing.T) {
	store := newFakeStore()
	svc := NewQuizService(corpus.New(map[string]string{"2+2=?": "4"}), store, nil)

	_, err := svc.HandleAction(context.Background(), testKey, model.Action{Type: model.ActionNewQuestion})
	require.NoError(t, err)
	_, err = svc.HandleAction(context.Background(), testKey, model.Action{Type: model.ActionSubmitAnswer, Text: "4"})
	require.NoError(t, err)
}

func TestStaleQuestionFromOldCorpusIsDropped(t *testing.T) {
	svc, store, _ := newEngine(map[string]string{"2+2=?": "4"})
	store.questions[testKey.String()] = "Вопрос из старого набора?"

	reply := act(t, svc, model.Action{Type: model.ActionSubmitAnswer, Text: "что-то"})
	require.Equal(t, msgPressNewButton, reply.Text)
	require.Equal(t, model.StateNewQuestion, reply.State)
	_, active := store.questions[testKey.String()]
	require.False(t, active)
}
