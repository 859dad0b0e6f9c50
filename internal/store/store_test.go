package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/pavelanni/pathways/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestSession(t *testing.T, s *Store, ttl time.Duration) *model.SessionState {
	t.Helper()
	sess, err := s.CreateSession(ttl)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return sess
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)

	sess := createTestSession(t, s, time.Hour)
	if sess.ID == "" {
		t.Fatal("expected non-empty session ID")
	}

	got, err := s.GetSession(sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.Answered() {
		t.Errorf("new session should have no answers, got %v", got.Answers)
	}
	if got.Code != "" {
		t.Errorf("new session should have no code, got %q", got.Code)
	}

	// Submit answers.
	answers := []model.Category{"R", "R", "I"}
	if err := s.SaveAnswers(sess.ID, answers, time.Hour); err != nil {
		t.Fatalf("SaveAnswers: %v", err)
	}
	if err := s.SaveCode(sess.ID, "RIA", time.Hour); err != nil {
		t.Fatalf("SaveCode: %v", err)
	}
	got, _ = s.GetSession(sess.ID)
	if len(got.Answers) != 3 || got.Answers[0] != "R" || got.Answers[2] != "I" {
		t.Errorf("unexpected answers %v", got.Answers)
	}
	if got.Code != "RIA" {
		t.Errorf("expected code RIA, got %q", got.Code)
	}

	// A new submission overwrites answers and clears the stale code.
	if err := s.SaveAnswers(sess.ID, []model.Category{"C"}, time.Hour); err != nil {
		t.Fatalf("SaveAnswers: %v", err)
	}
	got, _ = s.GetSession(sess.ID)
	if len(got.Answers) != 1 || got.Answers[0] != "C" {
		t.Errorf("expected answers overwritten, got %v", got.Answers)
	}
	if got.Code != "" {
		t.Errorf("expected code cleared, got %q", got.Code)
	}

	// Delete.
	if err := s.DeleteSession(sess.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	got, err = s.GetSession(sess.ID)
	if err != nil {
		t.Fatalf("GetSession after delete: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestGetSessionUnknown(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetSession("does-not-exist")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got != nil {
		t.Error("expected nil for unknown session")
	}
}

func TestSaveUnknownSession(t *testing.T) {
	s := newTestStore(t)

	err := s.SaveAnswers("nope", []model.Category{"R"}, time.Hour)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected ErrNoRows, got %v", err)
	}
	err = s.SaveCode("nope", "RIA", time.Hour)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected ErrNoRows, got %v", err)
	}
}

func TestExpiredSessions(t *testing.T) {
	s := newTestStore(t)

	expired := createTestSession(t, s, -time.Minute)
	live := createTestSession(t, s, time.Hour)

	got, err := s.GetSession(expired.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got != nil {
		t.Error("expected nil for expired session")
	}

	// Reading an expired session deletes it.
	count, _ := s.SessionCount()
	if count != 1 {
		t.Errorf("expected 1 session left, got %d", count)
	}

	createTestSession(t, s, -time.Minute)
	createTestSession(t, s, -time.Minute)
	n, err := s.CleanupExpiredSessions()
	if err != nil {
		t.Fatalf("CleanupExpiredSessions: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 removed, got %d", n)
	}

	got, _ = s.GetSession(live.ID)
	if got == nil {
		t.Error("live session should survive cleanup")
	}
}

func TestListSessionsAndDistribution(t *testing.T) {
	s := newTestStore(t)

	for _, code := range []model.Code{"RIA", "SEC", "RIA", ""} {
		sess := createTestSession(t, s, time.Hour)
		if code == "" {
			continue
		}
		if err := s.SaveAnswers(sess.ID, code.Categories(), time.Hour); err != nil {
			t.Fatalf("SaveAnswers: %v", err)
		}
		if err := s.SaveCode(sess.ID, code, time.Hour); err != nil {
			t.Fatalf("SaveCode: %v", err)
		}
	}

	sessions, err := s.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 4 {
		t.Fatalf("expected 4 sessions, got %d", len(sessions))
	}

	dist, err := s.CodeDistribution()
	if err != nil {
		t.Fatalf("CodeDistribution: %v", err)
	}
	if len(dist) != 2 {
		t.Fatalf("expected 2 codes, got %d", len(dist))
	}
	if dist[0].Code != "RIA" || dist[0].Count != 2 {
		t.Errorf("expected RIA x2 first, got %+v", dist[0])
	}
	if dist[1].Code != "SEC" || dist[1].Count != 1 {
		t.Errorf("expected SEC x1 second, got %+v", dist[1])
	}
}

func TestMetadata(t *testing.T) {
	s := newTestStore(t)

	v, err := s.GetMetadata("missing")
	if err != nil {
		t.Fatalf("GetMetadata: %v", err)
	}
	if v != "" {
		t.Errorf("expected empty value, got %q", v)
	}

	info := model.DataInfo{
		QuestionsSource: "embedded:questions.yaml",
		QuestionsSHA256: "abc",
		QuestionCount:   10,
		MatchesSource:   "matches.json",
		MatchesSHA256:   "def",
		MatchCount:      21,
	}
	if err := s.SetDataInfo(info); err != nil {
		t.Fatalf("SetDataInfo: %v", err)
	}
	got, err := s.GetDataInfo()
	if err != nil {
		t.Fatalf("GetDataInfo: %v", err)
	}
	if got != info {
		t.Errorf("GetDataInfo() = %+v, want %+v", got, info)
	}

	// Upsert overwrites.
	if err := s.SetMetadata("questions_sha256", "xyz"); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}
	v, _ = s.GetMetadata("questions_sha256")
	if v != "xyz" {
		t.Errorf("expected overwritten value, got %q", v)
	}
}

type fakeResolver struct{}

func (fakeResolver) Tally(answers []model.Category) (model.Tally, error) {
	t := model.Tally{}
	for _, a := range answers {
		t[a]++
	}
	return t, nil
}

func (fakeResolver) Code(answers []model.Category) (model.Code, error) {
	return model.Code(encodeAnswers(answers)), nil
}

func (fakeResolver) MatchMajors(code model.Code) []string  { return []string{"major-" + string(code)} }
func (fakeResolver) MatchCareers(code model.Code) []string { return []string{"career-" + string(code)} }

func TestExportAllSessions(t *testing.T) {
	s := newTestStore(t)

	createTestSession(t, s, time.Hour) // no answers, skipped
	sess := createTestSession(t, s, time.Hour)
	if err := s.SaveAnswers(sess.ID, []model.Category{"S", "E", "S"}, time.Hour); err != nil {
		t.Fatalf("SaveAnswers: %v", err)
	}

	results, err := s.ExportAllSessions(fakeResolver{})
	if err != nil {
		t.Fatalf("ExportAllSessions: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.SessionID != sess.ID {
		t.Errorf("unexpected session id %q", r.SessionID)
	}
	if r.Answers != "SES" {
		t.Errorf("expected answers SES, got %q", r.Answers)
	}
	if r.Tally["S"] != 2 || r.Tally["E"] != 1 {
		t.Errorf("unexpected tally %v", r.Tally)
	}
	if r.Code != "SES" || r.Majors[0] != "major-SES" || r.Careers[0] != "career-SES" {
		t.Errorf("unexpected derived fields %+v", r)
	}
}

func TestRunJanitorStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))

	s := newTestStore(t)
	createTestSession(t, s, -time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.RunJanitor(ctx, 10*time.Millisecond) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		n, _ := s.SessionCount()
		if n == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("janitor did not remove expired session")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("RunJanitor returned %v", err)
	}
}
