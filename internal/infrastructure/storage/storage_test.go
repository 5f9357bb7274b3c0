package storage

import (
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/erp/client/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]LocalStorage {
	t.Helper()

	bolt, err := NewBoltStorage(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rds := NewRedisStorageWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")

	stores := map[string]LocalStorage{
		"memory": NewMemoryStorage(),
		"bolt":   bolt,
		"redis":  rds,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			_ = s.Close()
		}
	})
	return stores
}

func TestLocalStorage_Contract(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.GetItem(ctx, "token")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, s.SetItem(ctx, "token", "abc"))
			v, err := s.GetItem(ctx, "token")
			require.NoError(t, err)
			assert.Equal(t, "abc", v)

			require.NoError(t, s.SetItem(ctx, "token", "def"))
			v, err = s.GetItem(ctx, "token")
			require.NoError(t, err)
			assert.Equal(t, "def", v)

			require.NoError(t, s.RemoveItem(ctx, "token"))
			_, err = s.GetItem(ctx, "token")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			// removing twice is fine
			assert.NoError(t, s.RemoveItem(ctx, "token"))
		})
	}
}

func TestLocalStorage_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					assert.NoError(t, s.SetItem(ctx, "k"+strconv.Itoa(i), strconv.Itoa(i)))
				}(i)
			}
			wg.Wait()

			for i := 0; i < 20; i++ {
				v, err := s.GetItem(ctx, "k"+strconv.Itoa(i))
				require.NoError(t, err)
				assert.Equal(t, strconv.Itoa(i), v)
			}
		})
	}
}

func TestBoltStorage_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := NewBoltStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.SetItem(ctx, "userInfo", `{"id":"user-001"}`))
	require.NoError(t, s.Close())

	s, err = NewBoltStorage(path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.GetItem(ctx, "userInfo")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"user-001"}`, v)
	assert.Equal(t, path, s.Path())
}

func TestRedisStorage_KeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStorageWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "tenant-a:")
	defer s.Close()

	require.NoError(t, s.SetItem(context.Background(), "token", "abc"))

	got, err := mr.Get("tenant-a:token")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestFactory(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	t.Run("memory", func(t *testing.T) {
		s, err := NewFactory(config.StorageConfig{Driver: "memory"}).Create()
		require.NoError(t, err)
		assert.IsType(t, &MemoryStorage{}, s)
	})

	t.Run("bolt", func(t *testing.T) {
		s, err := NewFactory(config.StorageConfig{
			Driver: "bolt",
			Path:   filepath.Join(t.TempDir(), "s.db"),
		}).Create()
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &BoltStorage{}, s)
	})

	t.Run("redis", func(t *testing.T) {
		s, err := NewFactory(config.StorageConfig{
			Driver: "redis",
			Redis:  config.RedisConfig{Host: mr.Host(), Port: port},
		}).Create()
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &RedisStorage{}, s)
	})

	t.Run("unreachable redis falls back", func(t *testing.T) {
		s, err := NewFactory(config.StorageConfig{
			Driver: "redis",
			Redis:  config.RedisConfig{Host: "127.0.0.1", Port: 1},
		}, WithInMemoryFallback(true)).Create()
		require.NoError(t, err)
		assert.IsType(t, &MemoryStorage{}, s)
	})

	t.Run("unreachable redis without fallback", func(t *testing.T) {
		_, err := NewFactory(config.StorageConfig{
			Driver: "redis",
			Redis:  config.RedisConfig{Host: "127.0.0.1", Port: 1},
		}, WithInMemoryFallback(false)).Create()
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := NewFactory(config.StorageConfig{Driver: "sqlite"}).Create()
		assert.Error(t, err)
	})
}
