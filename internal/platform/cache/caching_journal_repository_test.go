package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analysis "calorie_backend/internal/feature/analysis/domain/entity"
	"calorie_backend/internal/feature/journal/domain"
	"calorie_backend/internal/feature/journal/domain/entity"
)

// mockJournalRepository はテスト用のJournalRepositoryモック実装です。
type mockJournalRepository struct {
	createFn   func(ctx context.Context, e *entity.Entry) error
	findByIDFn func(ctx context.Context, id string) (*entity.Entry, error)
	listFn     func(ctx context.Context, limit int) ([]entity.Entry, error)
}

func (m *mockJournalRepository) Create(ctx context.Context, e *entity.Entry) error {
	if m.createFn != nil {
		return m.createFn(ctx, e)
	}
	return nil
}

func (m *mockJournalRepository) FindByID(ctx context.Context, id string) (*entity.Entry, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, domain.ErrEntryNotFound
}

func (m *mockJournalRepository) List(ctx context.Context, limit int) ([]entity.Entry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return nil, nil
}

func sampleEntries() []entity.Entry {
	return []entity.Entry{{
		ID:                        "e1",
		SessionID:                 "s1",
		Ingredients:               []analysis.Ingredient{{Name: "rice", Grams: 150, Calories: 195, AccuracyPercentage: 90}},
		OverallAccuracyPercentage: 85,
		CreatedAt:                 time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}}
}

// TestNewCachingJournalRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingJournalRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", DefaultTTL, "journal"},
		{"negative ttl uses default", -time.Minute, "", DefaultTTL, "journal"},
		{"custom values preserved", 10 * time.Minute, "custom", 10 * time.Minute, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingJournalRepository(nil, tt.ttl, &mockJournalRepository{}, tt.namespace)

			assert.Equal(t, tt.expectedTTL, repo.ttl)
			assert.Equal(t, tt.expectedNamespace, repo.namespace)
		})
	}
}

// TestCachingJournalRepository_List_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestCachingJournalRepository_List_NilRedis(t *testing.T) {
	t.Parallel()

	called := 0
	inner := &mockJournalRepository{listFn: func(ctx context.Context, limit int) ([]entity.Entry, error) {
		called++
		return sampleEntries(), nil
	}}
	repo := NewCachingJournalRepository(nil, time.Minute, inner, "journal")

	got, err := repo.List(context.Background(), 20)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, called)
}

// TestCachingJournalRepository_List_CacheHit はキャッシュヒット時に内部リポジトリを呼ばないことを検証します。
func TestCachingJournalRepository_List_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cachedJSON, err := json.Marshal(sampleEntries())
	require.NoError(t, err)
	mock.ExpectGet("journal:list:20").SetVal(string(cachedJSON))

	inner := &mockJournalRepository{listFn: func(ctx context.Context, limit int) ([]entity.Entry, error) {
		t.Error("inner repository should not be called on cache hit")
		return nil, nil
	}}
	repo := NewCachingJournalRepository(rdb, time.Minute, inner, "journal")

	got, err := repo.List(context.Background(), 20)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "rice", got[0].Ingredients[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingJournalRepository_List_CacheMiss はキャッシュミス時にDBから取得してキャッシュに保存することを検証します。
func TestCachingJournalRepository_List_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, err := json.Marshal(sampleEntries())
	require.NoError(t, err)
	mock.ExpectGet("journal:list:20").RedisNil()
	mock.ExpectSet("journal:list:20", expectedJSON, time.Minute).SetVal("OK")

	inner := &mockJournalRepository{listFn: func(ctx context.Context, limit int) ([]entity.Entry, error) {
		return sampleEntries(), nil
	}}
	repo := NewCachingJournalRepository(rdb, time.Minute, inner, "journal")

	got, err := repo.List(context.Background(), 20)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingJournalRepository_List_CorruptedCache は破損したキャッシュを削除してDBにフォールバックすることを検証します。
func TestCachingJournalRepository_List_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, err := json.Marshal(sampleEntries())
	require.NoError(t, err)
	mock.ExpectGet("journal:list:5").SetVal("invalid json")
	mock.ExpectDel("journal:list:5").SetVal(1)
	mock.ExpectSet("journal:list:5", expectedJSON, time.Minute).SetVal("OK")

	inner := &mockJournalRepository{listFn: func(ctx context.Context, limit int) ([]entity.Entry, error) {
		return sampleEntries(), nil
	}}
	repo := NewCachingJournalRepository(rdb, time.Minute, inner, "journal")

	got, err := repo.List(context.Background(), 5)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingJournalRepository_List_InnerError は内部リポジトリのエラーが伝播し、キャッシュされないことを検証します。
func TestCachingJournalRepository_List_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("database error")
	mock.ExpectGet("journal:list:20").RedisNil()

	inner := &mockJournalRepository{listFn: func(ctx context.Context, limit int) ([]entity.Entry, error) {
		return nil, expectedErr
	}}
	repo := NewCachingJournalRepository(rdb, time.Minute, inner, "journal")

	_, err := repo.List(context.Background(), 20)

	assert.ErrorIs(t, err, expectedErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingJournalRepository_Create_InvalidatesLists は保存後に一覧キャッシュが削除されることを検証します。
func TestCachingJournalRepository_Create_InvalidatesLists(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "journal:list:*", 200).SetVal([]string{"journal:list:20", "journal:list:5"}, 0)
	mock.ExpectDel("journal:list:20", "journal:list:5").SetVal(2)

	created := false
	inner := &mockJournalRepository{createFn: func(ctx context.Context, e *entity.Entry) error {
		created = true
		return nil
	}}
	repo := NewCachingJournalRepository(rdb, time.Minute, inner, "journal")

	e := sampleEntries()[0]
	require.NoError(t, repo.Create(context.Background(), &e))

	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingJournalRepository_Create_InnerError は保存に失敗した場合にキャッシュへ触れないことを検証します。
func TestCachingJournalRepository_Create_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("constraint violation")
	inner := &mockJournalRepository{createFn: func(ctx context.Context, e *entity.Entry) error {
		return expectedErr
	}}
	repo := NewCachingJournalRepository(rdb, time.Minute, inner, "journal")

	e := sampleEntries()[0]
	err := repo.Create(context.Background(), &e)

	assert.ErrorIs(t, err, expectedErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingJournalRepository_FindByID はエントリ単位のキャッシュを検証します。
func TestCachingJournalRepository_FindByID(t *testing.T) {
	t.Parallel()

	t.Run("miss then store", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()

		e := sampleEntries()[0]
		expectedJSON, err := json.Marshal(&e)
		require.NoError(t, err)
		mock.ExpectGet("journal:entry:e1").RedisNil()
		mock.ExpectSet("journal:entry:e1", expectedJSON, time.Minute).SetVal("OK")

		inner := &mockJournalRepository{findByIDFn: func(ctx context.Context, id string) (*entity.Entry, error) {
			return &e, nil
		}}
		repo := NewCachingJournalRepository(rdb, time.Minute, inner, "journal")

		got, err := repo.FindByID(context.Background(), "e1")

		require.NoError(t, err)
		assert.Equal(t, "s1", got.SessionID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found is not cached", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()

		mock.ExpectGet("journal:entry:missing").RedisNil()
		repo := NewCachingJournalRepository(rdb, time.Minute, &mockJournalRepository{}, "journal")

		_, err := repo.FindByID(context.Background(), "missing")

		assert.ErrorIs(t, err, domain.ErrEntryNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("key is escaped", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		defer func() { _ = rdb.Close() }()

		mock.ExpectGet("journal:entry:a_b_c").RedisNil()
		repo := NewCachingJournalRepository(rdb, time.Minute, &mockJournalRepository{}, "journal")

		_, _ = repo.FindByID(context.Background(), "a:b c")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
