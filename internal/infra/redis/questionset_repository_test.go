package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"summit-quiz-service/internal/domain"
	"summit-quiz-service/internal/infra/memory"
)

func TestQuestionSetRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	loader := &countingLoader{
		QuestionSetLoader: memory.NewStaticQuestionSetLoader(map[string]domain.QuestionSet{
			"alpine-basics": sampleSet(),
		}),
	}
	repo := NewQuestionSetRepository(client, loader, time.Minute)

	set, err := repo.GetQuestionSet(context.Background(), "alpine-basics")
	if err != nil {
		t.Fatalf("get set: %v", err)
	}
	if len(set.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(set.Questions))
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}

	// Second call should hit the redis cache, loader not incremented.
	if _, err := repo.GetQuestionSet(context.Background(), "alpine-basics"); err != nil {
		t.Fatalf("get set 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if !mr.Exists("game:set:alpine-basics") {
		t.Fatalf("expected cached key in redis")
	}
}

type countingLoader struct {
	memory.QuestionSetLoader
	calls int
}

func (l *countingLoader) LoadQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error) {
	l.calls++
	return l.QuestionSetLoader.LoadQuestionSet(ctx, setID)
}

func sampleSet() domain.QuestionSet {
	zero := 0
	return domain.QuestionSet{
		ID: "alpine-basics",
		Questions: []domain.QuestionSpec{
			{
				Text:               "Which rope holds?",
				Options:            []domain.Option{{Text: "Left"}, {Text: "Right"}},
				CorrectOptionIndex: &zero,
				TimeLimitSec:       20,
			},
		},
	}
}
