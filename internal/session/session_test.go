package session

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"resumeparser/internal/config"
	"resumeparser/internal/errors"
	"resumeparser/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResume(skill string) types.ParsedResume {
	return types.ParsedResume{
		Education: []string{"BSc Computer Science"},
		Skills:    types.NewSkillSet(skill),
	}
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord("cv.pdf", 120, sampleResume("Go"))

	_, err := uuid.Parse(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", rec.Filename)
	assert.Equal(t, 120, rec.Characters)
	assert.WithinDuration(t, time.Now(), rec.UploadedAt, time.Minute)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Current(ctx)
	assert.ErrorIs(t, err, ErrNoResume)

	first := NewRecord("first.pdf", 10, sampleResume("Go"))
	second := NewRecord("second.docx", 20, sampleResume("SQL"))
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, []string{"SQL"}, got.Resume.Skills.Items())

	assert.NoError(t, store.Ping(ctx))
	assert.NoError(t, store.Close())
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Save(ctx, NewRecord("cv.txt", i, sampleResume("Go")))
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Current(ctx)
		}()
	}
	wg.Wait()

	_, err := store.Current(ctx)
	assert.NoError(t, err)
}

func TestNoResumeError(t *testing.T) {
	_, err := NewMemoryStore().Current(context.Background())
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNoResumeUploaded, appErr.Code)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	assert.ErrorIs(t, err, ErrNoResume)

	appErr.WithContext("request_id", "abc")
	_, again := NewMemoryStore().Current(context.Background())
	fresh, ok := errors.AsAppError(again)
	require.True(t, ok)
	assert.NotSame(t, appErr, fresh)
	assert.Empty(t, fresh.Context)
}

func TestNewBackends(t *testing.T) {
	logger := errors.NewLogger(slog.LevelError)

	store, err := New(config.SessionConfig{Backend: "memory"}, logger)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	_, err = New(config.SessionConfig{Backend: "etcd"}, logger)
	assert.Error(t, err)

	_, err = New(config.SessionConfig{Backend: "redis"}, logger)
	assert.Error(t, err)
}

// TestRedisStore runs against a real server when RESUMEPARSER_TEST_REDIS_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("RESUMEPARSER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("RESUMEPARSER_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	cfg := config.RedisConfig{
		Addr: addr,
		Key:  "resumeparser:test:" + uuid.NewString(),
		TTL:  time.Minute,
	}
	store, err := NewRedisStore(cfg, errors.NewLogger(slog.LevelError))
	require.NoError(t, err)
	defer store.Close()
	defer store.client.Del(ctx, cfg.Key)

	_, err = store.Current(ctx)
	assert.ErrorIs(t, err, ErrNoResume)

	rec := NewRecord("cv.pdf", 42, sampleResume("Kubernetes"))
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Resume.Skills.Items(), got.Resume.Skills.Items())
	assert.True(t, rec.UploadedAt.Equal(got.UploadedAt))
}
