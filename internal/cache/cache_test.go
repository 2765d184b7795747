package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/streamtube/backend/pkg/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	// Create a mini Redis server for testing
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	cache, err := NewCache(mr.Host(), mr.Server().Addr().Port, "", 0)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create cache: %v", err)
	}

	return cache, mr
}

func TestNewCache(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()
	if err := cache.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestCache_VideoOperations(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	video := &models.Video{
		ID:          "test-video-1",
		Title:       "Test Video",
		Duration:    60.0,
		Views:       12,
		IsPublished: true,
		OwnerID:     "owner-1",
	}

	// Test SetVideo
	err := cache.SetVideo(ctx, video, 5*time.Minute)
	if err != nil {
		t.Fatalf("SetVideo failed: %v", err)
	}

	// Test GetVideo
	retrieved, err := cache.GetVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("GetVideo failed: %v", err)
	}

	if retrieved == nil {
		t.Fatal("Retrieved video should not be nil")
	}

	if retrieved.ID != video.ID {
		t.Errorf("Expected ID %s, got %s", video.ID, retrieved.ID)
	}

	if retrieved.Title != video.Title {
		t.Errorf("Expected title %s, got %s", video.Title, retrieved.Title)
	}

	// Test GetVideo for non-existent video
	nonExistent, err := cache.GetVideo(ctx, "non-existent")
	if err != nil {
		t.Fatalf("GetVideo for non-existent should not error: %v", err)
	}

	if nonExistent != nil {
		t.Error("Non-existent video should return nil")
	}

	// Test DeleteVideo
	err = cache.DeleteVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("DeleteVideo failed: %v", err)
	}

	deleted, err := cache.GetVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("GetVideo after delete failed: %v", err)
	}

	if deleted != nil {
		t.Error("Deleted video should return nil")
	}
}

func TestCache_ChannelStatsOperations(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()
	channelID := "channel-1"

	stats := &models.ChannelStats{
		TotalSubscribers: 42,
		TotalVideos:      7,
		TotalViews:       9001,
		TotalLikes:       100,
	}

	err := cache.SetChannelStats(ctx, channelID, stats, 5*time.Minute)
	if err != nil {
		t.Fatalf("SetChannelStats failed: %v", err)
	}

	retrieved, err := cache.GetChannelStats(ctx, channelID)
	if err != nil {
		t.Fatalf("GetChannelStats failed: %v", err)
	}

	if retrieved == nil {
		t.Fatal("Retrieved stats should not be nil")
	}

	if retrieved.TotalSubscribers != stats.TotalSubscribers {
		t.Errorf("Expected %d subscribers, got %d", stats.TotalSubscribers, retrieved.TotalSubscribers)
	}

	if retrieved.TotalViews != stats.TotalViews {
		t.Errorf("Expected %d views, got %d", stats.TotalViews, retrieved.TotalViews)
	}

	// Cache miss returns nil, nil
	miss, err := cache.GetChannelStats(ctx, "unknown-channel")
	if err != nil {
		t.Fatalf("GetChannelStats miss should not error: %v", err)
	}

	if miss != nil {
		t.Error("Cache miss should return nil")
	}

	// Invalidation
	err = cache.DeleteChannelStats(ctx, channelID)
	if err != nil {
		t.Fatalf("DeleteChannelStats failed: %v", err)
	}

	deleted, err := cache.GetChannelStats(ctx, channelID)
	if err != nil {
		t.Fatalf("GetChannelStats after delete failed: %v", err)
	}

	if deleted != nil {
		t.Error("Deleted stats should return nil")
	}
}

func TestCache_DeletePattern(t *testing.T) {
	cache, mr := setupTestCache(t)
	defer mr.Close()
	defer cache.Close()

	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := cache.SetChannelStats(ctx, id, &models.ChannelStats{}, 5*time.Minute); err != nil {
			t.Fatalf("SetChannelStats failed: %v", err)
		}
	}

	if err := cache.DeletePattern(ctx, "stats:channel:*"); err != nil {
		t.Fatalf("DeletePattern failed: %v", err)
	}

	for _, id := range []string{"a", "b", "c"} {
		stats, err := cache.GetChannelStats(ctx, id)
		if err != nil {
			t.Fatalf("GetChannelStats failed: %v", err)
		}
		if stats != nil {
			t.Errorf("Stats for %s should be gone after DeletePattern", id)
		}
	}
}
