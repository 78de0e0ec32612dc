package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyStoreReplaysExistingResponse(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	cached := `{"id":"stl-1","amount":"50000"}`
	if err := client.Set(ctx, store.prefix+"settle-veh-1", cached, time.Minute).Err(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "settle-veh-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}

	if !exists {
		t.Fatal("expected existing response for replayed key")
	}
	if string(resp) != cached {
		t.Fatalf("expected cached settlement response, got %s", resp)
	}
}

func TestIdempotencyStoreLocksFirstRequest(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, resp, err := store.CheckAndSet(ctx, "settle-veh-2", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}
	if exists || resp != nil {
		t.Fatalf("expected fresh key to pass through, got exists=%v resp=%s", exists, resp)
	}

	// The in-flight placeholder blocks a concurrent duplicate.
	val, err := client.Get(ctx, store.prefix+"settle-veh-2").Result()
	if err != nil || val != "processing" {
		t.Fatalf("expected placeholder lock, got val=%q err=%v", val, err)
	}
}

func TestIdempotencyStoreUpdateStoresFinalResponse(t *testing.T) {
	client, _ := newTestRedisClient(t)
	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "settle-veh-3", nil, time.Minute); err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}

	final := []byte(`{"status":"created"}`)
	if err := store.Update(ctx, "settle-veh-3", final, time.Minute); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	val, err := client.Get(ctx, store.prefix+"settle-veh-3").Result()
	if err != nil || val != string(final) {
		t.Fatalf("expected final response stored, got val=%q err=%v", val, err)
	}
}
