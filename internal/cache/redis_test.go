package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// newTestClient connects to the Redis named by TEST_REDIS_ADDR, skipping otherwise.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}
	t.Cleanup(func() { rdb.Close() })
	return NewWithClient(rdb, zerolog.Nop())
}

func TestCodes(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	email := uuid.NewString() + "@example.com"

	code, err := c.GetCode(ctx, "signup", email)
	if err != nil || code != "" {
		t.Fatalf("Expected no pending code, got %q (%v)", code, err)
	}

	if err := c.SaveCode(ctx, "signup", email, "123456", time.Minute); err != nil {
		t.Fatalf("SaveCode failed: %v", err)
	}
	if code, _ := c.GetCode(ctx, "signup", email); code != "123456" {
		t.Errorf("Expected 123456, got %q", code)
	}
	if code, _ := c.GetCode(ctx, "reset", email); code != "" {
		t.Errorf("Expected purposes to be isolated, got %q", code)
	}

	if err := c.DeleteCode(ctx, "signup", email); err != nil {
		t.Fatalf("DeleteCode failed: %v", err)
	}
	if code, _ := c.GetCode(ctx, "signup", email); code != "" {
		t.Errorf("Expected code to be deleted, got %q", code)
	}
}

func TestRevocation(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	tokenID := uuid.NewString()

	revoked, err := c.IsRevoked(ctx, tokenID)
	if err != nil || revoked {
		t.Fatalf("Expected fresh token to be valid, got %v (%v)", revoked, err)
	}

	if err := c.Revoke(ctx, tokenID, time.Minute); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if revoked, _ := c.IsRevoked(ctx, tokenID); !revoked {
		t.Error("Expected token to be revoked")
	}
}

func TestFailedAttempts(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	email := uuid.NewString() + "@example.com"

	if err := c.SaveCode(ctx, "reset", email, "123456", time.Minute); err != nil {
		t.Fatalf("SaveCode failed: %v", err)
	}
	for want := int64(1); want <= 3; want++ {
		got, err := c.RecordFailedAttempt(ctx, "reset", email, time.Minute)
		if err != nil {
			t.Fatalf("RecordFailedAttempt failed: %v", err)
		}
		if got != want {
			t.Errorf("Expected %d attempts, got %d", want, got)
		}
	}

	// A new code resets the counter
	if err := c.SaveCode(ctx, "reset", email, "654321", time.Minute); err != nil {
		t.Fatalf("SaveCode failed: %v", err)
	}
	if got, _ := c.RecordFailedAttempt(ctx, "reset", email, time.Minute); got != 1 {
		t.Errorf("Expected counter to restart at 1, got %d", got)
	}

	if err := c.DeleteCode(ctx, "reset", email); err != nil {
		t.Fatalf("DeleteCode failed: %v", err)
	}
	if n, _ := c.rdb.Exists(ctx, attemptsKey("reset", email)).Result(); n != 0 {
		t.Error("Expected attempt counter to be deleted with the code")
	}
}
