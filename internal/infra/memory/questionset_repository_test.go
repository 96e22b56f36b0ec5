package memory

import (
	"context"
	"testing"
	"time"

	"summit-quiz-service/internal/domain"
)

func TestQuestionSetRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuestionSetLoader: NewStaticQuestionSetLoader(map[string]domain.QuestionSet{
			"alpine-basics": sampleSet(),
		}),
	}
	repo := NewQuestionSetRepository(loader, time.Minute)

	if _, err := repo.GetQuestionSet(context.Background(), "alpine-basics"); err != nil {
		t.Fatalf("get set: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetQuestionSet(context.Background(), "alpine-basics"); err != nil {
		t.Fatalf("get set 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuestionSetRepositoryMiss(t *testing.T) {
	repo := NewQuestionSetRepository(NewStaticQuestionSetLoader(nil), time.Minute)
	if _, err := repo.GetQuestionSet(context.Background(), "nope"); err != domain.ErrQuestionSetNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

type countingLoader struct {
	QuestionSetLoader
	calls int
}

func (l *countingLoader) LoadQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error) {
	l.calls++
	return l.QuestionSetLoader.LoadQuestionSet(ctx, setID)
}

func sampleSet() domain.QuestionSet {
	two := 2
	return domain.QuestionSet{
		ID: "alpine-basics",
		Questions: []domain.QuestionSpec{
			{
				Text:               "Which rope do you trust?",
				Options:            []domain.Option{{Text: "Red"}, {Text: "Blue"}, {Text: "Green"}},
				CorrectOptionIndex: &two,
				TimeLimitSec:       20,
			},
		},
	}
}
