package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"geo-quiz-service/internal/app"
	"geo-quiz-service/internal/catalog"
	"geo-quiz-service/internal/domain"
	"geo-quiz-service/internal/infra/memory"
	"geo-quiz-service/internal/question"
)

type pointLocator map[[2]float64]string

func (l pointLocator) Locate(lat, lng float64) (string, bool) {
	code, ok := l[[2]float64{lat, lng}]
	return code, ok
}

func TestServiceRoundByCode(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	id, events, cancel := service.Open(ctx)
	defer cancel()
	defer service.Close(ctx, id)

	started, err := service.Start(ctx, id)
	if err != nil || !started {
		t.Fatalf("start: started=%v err=%v", started, err)
	}
	if again, _ := service.Start(ctx, id); again {
		t.Fatalf("second start must be a no-op")
	}

	ev := nextEvent(t, events, domain.EventQuestion)
	if ev.Question != "Which country has Paris as its capital?" {
		t.Fatalf("unexpected question %q", ev.Question)
	}

	if ok, err := service.ClickCode(ctx, id, "fra"); err != nil || !ok {
		t.Fatalf("click: ok=%v err=%v", ok, err)
	}
	fb := nextEvent(t, events, domain.EventFeedback)
	if !fb.Correct {
		t.Fatalf("expected correct feedback")
	}

	st, err := service.Status(ctx, id)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Score != 300 || st.Remaining != 64 {
		t.Fatalf("expected 300 points and 64s, got %+v", st)
	}

	if stopped, _ := service.Stop(ctx, id); !stopped {
		t.Fatalf("expected stop to end the round")
	}
	end := nextEvent(t, events, domain.EventRoundEnded)
	if end.Score != 300 {
		t.Fatalf("expected final score 300, got %d", end.Score)
	}
}

func TestServiceClickAtMissesWater(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	id, events, cancel := service.Open(ctx)
	defer cancel()
	defer service.Close(ctx, id)

	service.Start(ctx, id)
	nextEvent(t, events, domain.EventQuestion)

	if ok, _ := service.ClickAt(ctx, id, 0, -30); !ok {
		t.Fatalf("miss should still answer the question")
	}
	if fb := nextEvent(t, events, domain.EventFeedback); fb.Correct {
		t.Fatalf("a click on water must be wrong")
	}
	nextEvent(t, events, domain.EventQuestion)

	if ok, _ := service.ClickAt(ctx, id, 46.6, 2.2); !ok {
		t.Fatalf("click on France should be delivered")
	}
	if fb := nextEvent(t, events, domain.EventFeedback); !fb.Correct {
		t.Fatalf("a click inside France must be correct")
	}
}

func TestServiceClickNeverSettlesAsTimeout(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	id, events, cancel := service.Open(ctx)
	defer cancel()
	defer service.Close(ctx, id)

	service.Start(ctx, id)
	for _, name := range []string{domain.TimeoutToken, " timeout ", domain.MissToken} {
		nextEvent(t, events, domain.EventQuestion)
		if ok, err := service.Click(ctx, id, name); err != nil || !ok {
			t.Fatalf("click %q: ok=%v err=%v", name, ok, err)
		}
		if fb := nextEvent(t, events, domain.EventFeedback); fb.Correct {
			t.Fatalf("click %q must be scored as wrong", name)
		}
	}

	st, err := service.Status(ctx, id)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !st.Running || st.Remaining != 48 {
		t.Fatalf("expected the round to keep running at 48s, got %+v", st)
	}
}

func TestServiceUnknownSession(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	if _, err := service.Start(ctx, "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session error, got %v", err)
	}
	if _, err := service.Click(ctx, "missing", "France"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session error, got %v", err)
	}

	id, _, cancel := service.Open(ctx)
	defer cancel()
	service.Close(ctx, id)
	if _, err := service.Status(ctx, id); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("closed session should be gone, got %v", err)
	}
}

func nextEvent(t *testing.T, events <-chan domain.Event, want string) domain.Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatalf("event stream closed waiting for %s", want)
			}
			if ev.Type == want {
				return ev
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func newTestService() *app.QuizService {
	cat := catalog.New()
	cat.Upsert("FRA", domain.CountryRecord{Code: "FRA", Name: "France", Capital: "Paris"})
	gen := question.New(cat, []string{"Which country has {capital} as its capital?"})

	return app.NewQuizService(memory.NewSessionStore(), gen, cat,
		app.WithTickPeriod(time.Hour),
		app.WithLocator(pointLocator{{46.6, 2.2}: "FRA"}),
	)
}
