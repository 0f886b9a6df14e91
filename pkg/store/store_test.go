package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipeed/walletbot/pkg/config"
)

func newRecord(name string) Record {
	return Record{
		ID:         uuid.NewString(),
		Name:       name,
		EthAddress: "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23",
		BscAddress: "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23",
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
}

// runStoreSuite checks the behaviour every backend must share.
func runStoreSuite(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("empty profile", func(t *testing.T) {
		s := open(t)
		records, err := s.ListWallets(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, records)

		_, found, err := s.FindWallet(ctx, 1, "missing")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("upsert creates profile and keeps order", func(t *testing.T) {
		s := open(t)
		a, b := newRecord("alpha"), newRecord("beta")
		require.NoError(t, s.UpsertWallet(ctx, 7, a))
		require.NoError(t, s.UpsertWallet(ctx, 7, b))

		records, err := s.ListWallets(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "beta"}, Names(records))
		assert.Equal(t, a.ID, records[0].ID)
		assert.True(t, a.CreatedAt.Equal(records[0].CreatedAt))
	})

	t.Run("profiles are isolated", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.UpsertWallet(ctx, 1, newRecord("mine")))

		records, err := s.ListWallets(ctx, 2)
		require.NoError(t, err)
		assert.Empty(t, records)

		deleted, err := s.DeleteWallet(ctx, 2, "mine")
		require.NoError(t, err)
		assert.False(t, deleted)

		records, err = s.ListWallets(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("duplicate names resolve to first", func(t *testing.T) {
		s := open(t)
		first, second := newRecord("dup"), newRecord("dup")
		require.NoError(t, s.UpsertWallet(ctx, 3, first))
		require.NoError(t, s.UpsertWallet(ctx, 3, second))

		got, found, err := s.FindWallet(ctx, 3, "dup")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, first.ID, got.ID)

		deleted, err := s.DeleteWallet(ctx, 3, "dup")
		require.NoError(t, err)
		assert.True(t, deleted)

		records, err := s.ListWallets(ctx, 3)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, second.ID, records[0].ID)
	})

	t.Run("delete unknown name leaves list unchanged", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.UpsertWallet(ctx, 4, newRecord("keep")))

		deleted, err := s.DeleteWallet(ctx, 4, "other")
		require.NoError(t, err)
		assert.False(t, deleted)

		records, err := s.ListWallets(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, []string{"keep"}, Names(records))
	})

	t.Run("empty name is stored verbatim", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.UpsertWallet(ctx, 5, newRecord("")))
		_, found, err := s.FindWallet(ctx, 5, "")
		require.NoError(t, err)
		assert.True(t, found)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestMemoryStore_ListReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.UpsertWallet(ctx, 1, newRecord("a")))

	records, err := s.ListWallets(ctx, 1)
	require.NoError(t, err)
	records[0].Name = "mutated"

	_, found, err := s.FindWallet(ctx, 1, "a")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "wallets.db"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close(context.Background()) })
		return s
	})
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "wallets.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.UpsertWallet(ctx, 9, newRecord("durable")))
	require.NoError(t, s.Close(ctx))

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close(ctx)

	records, err := s.ListWallets(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, []string{"durable"}, Names(records))
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("WALLETBOT_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("WALLETBOT_TEST_MONGO_URI not set")
	}

	runStoreSuite(t, func(t *testing.T) Store {
		ctx := context.Background()
		s, err := OpenMongo(ctx, uri, "walletbot_test_"+uuid.NewString()[:8])
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = s.profiles.Database().Drop(ctx)
			_ = s.Close(ctx)
		})
		return s
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	cfg := config.DefaultConfig()
	cfg.Store.Driver = config.StoreMemory
	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	cfg.Store.Driver = config.StoreSQLite
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "w.db")
	s, err = Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	s.Close(ctx)

	cfg.Store.Driver = "cassandra"
	_, err = Open(ctx, cfg)
	assert.Error(t, err)
}

func TestOpenOrMemory_FallsBack(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Store.Driver = config.StoreMongo
	cfg.Store.MongoURI = "not-a-mongo-uri"
	cfg.Store.ConnectTimeout = time.Second

	s, driver := OpenOrMemory(context.Background(), cfg)
	assert.Equal(t, config.StoreMemory, driver)
	assert.IsType(t, &MemoryStore{}, s)
}
