package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type exampleStore struct {
	seen map[string]bool
}

func (s *exampleStore) Get(context.Context, string) (string, error) { return "", nil }

func (s *exampleStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

func (s *exampleStore) IdempotencyKey(scope, id string) string {
	return "sf:idempotency:" + scope + ":" + id
}

func (s *exampleStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.seen, key)
	}
	return nil
}

func ExampleManager_CheckAndMarkProcessed() {
	ctx := context.Background()
	manager, _ := NewManager(&exampleStore{seen: map[string]bool{}}, 7*24*time.Hour)
	eventID := uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")

	handle := func() {
		already, _ := manager.CheckAndMarkProcessed(ctx, "order-notifier", eventID)
		if already {
			fmt.Println("already processed")
			return
		}
		fmt.Println("processing event")
	}

	handle()
	handle()
	// Output:
	// processing event
	// already processed
}
