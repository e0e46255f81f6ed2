package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/hfarooqi/tarikh-portal/pkg/logger"
)

func setupTestCache(t *testing.T) *Cache {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewWithClient(client, time.Minute, logger.Discard())
}

func TestCache_GetSetJSON(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	type payload struct {
		Points int `json:"points"`
	}

	// Miss before set
	var out payload
	found, err := c.GetJSON(ctx, "user:1:points", &out)
	if err != nil {
		t.Fatalf("GetJSON() failed: %v", err)
	}
	if found {
		t.Error("Expected cache miss before set")
	}

	// Set then hit
	if err := c.SetJSON(ctx, "user:1:points", payload{Points: 25}); err != nil {
		t.Fatalf("SetJSON() failed: %v", err)
	}

	found, err = c.GetJSON(ctx, "user:1:points", &out)
	if err != nil {
		t.Fatalf("GetJSON() after set failed: %v", err)
	}
	if !found {
		t.Fatal("Expected cache hit after set")
	}
	if out.Points != 25 {
		t.Errorf("Expected cached points 25, got %d", out.Points)
	}
}

func TestCache_Delete(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	if err := c.SetJSON(ctx, "user:2:points", 40); err != nil {
		t.Fatalf("SetJSON() failed: %v", err)
	}

	if err := c.Delete(ctx, "user:2:points", "user:2:badges"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	var out int
	found, err := c.GetJSON(ctx, "user:2:points", &out)
	if err != nil {
		t.Fatalf("GetJSON() failed: %v", err)
	}
	if found {
		t.Error("Expected cache miss after delete")
	}
}

func TestCache_NilCacheIsNoop(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	var out int
	found, err := c.GetJSON(ctx, "anything", &out)
	if err != nil || found {
		t.Errorf("Expected nil cache to miss silently, got found=%v err=%v", found, err)
	}

	if err := c.SetJSON(ctx, "anything", 1); err != nil {
		t.Errorf("Expected nil cache set to be a no-op, got %v", err)
	}

	if err := c.Delete(ctx, "anything"); err != nil {
		t.Errorf("Expected nil cache delete to be a no-op, got %v", err)
	}
}
