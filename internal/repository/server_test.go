package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"server-deck/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Server{}))
	return db
}

func orderAt(n uint) *uint { return &n }

func seedServer(t *testing.T, repo *ServerRepository, name string, sortOrder uint) *model.Server {
	t.Helper()
	server := &model.Server{
		Name:      name,
		Host:      name + ".local",
		IPAddress: "10.0.0.1",
		SortOrder: sortOrder,
		Status:    true,
	}
	require.NoError(t, repo.Create(server, true))
	return server
}

func TestCreateAssignsNextSortOrder(t *testing.T) {
	repo := NewServerRepository(newTestDB(t))

	first := &model.Server{Name: "one", Host: "one.local", IPAddress: "10.0.0.1", Status: true}
	require.NoError(t, repo.Create(first, false))
	assert.Equal(t, uint(1), first.SortOrder)

	seedServer(t, repo, "two", 7)

	third := &model.Server{Name: "three", Host: "three.local", IPAddress: "10.0.0.3", Status: true}
	require.NoError(t, repo.Create(third, false))
	assert.Equal(t, uint(8), third.SortOrder)
}

func TestCreateKeepsExplicitSortOrder(t *testing.T) {
	repo := NewServerRepository(newTestDB(t))

	server := seedServer(t, repo, "one", 42)
	assert.Equal(t, uint(42), server.SortOrder)
}

func TestListActiveOrdered(t *testing.T) {
	db := newTestDB(t)
	repo := NewServerRepository(db)

	seedServer(t, repo, "c", 3)
	seedServer(t, repo, "a", 1)
	seedServer(t, repo, "b", 2)

	servers, err := repo.ListActiveOrdered()
	require.NoError(t, err)
	require.Len(t, servers, 3)
	assert.Equal(t, "a", servers[0].Name)
	assert.Equal(t, "b", servers[1].Name)
	assert.Equal(t, "c", servers[2].Name)
}

func TestListTieBreaksNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewServerRepository(db)

	older := &model.Server{Name: "older", Host: "o.local", IPAddress: "10.0.0.1", SortOrder: 1, Status: true,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := &model.Server{Name: "newer", Host: "n.local", IPAddress: "10.0.0.2", SortOrder: 1, Status: true,
		CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, repo.Create(older, true))
	require.NoError(t, repo.Create(newer, true))

	servers, err := repo.ListActiveOrdered()
	require.NoError(t, err)
	require.Len(t, servers, 2)
	assert.Equal(t, "newer", servers[0].Name)
	assert.Equal(t, "older", servers[1].Name)
}

func TestSoftDeleteExcludesFromReads(t *testing.T) {
	db := newTestDB(t)
	repo := NewServerRepository(db)

	server := seedServer(t, repo, "gone", 1)
	seedServer(t, repo, "kept", 2)

	ok, err := repo.SoftDelete(server.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.Find(server.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	servers, err := repo.ListActiveOrdered()
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, "kept", servers[0].Name)

	count, err := repo.CountActive()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The row itself survives.
	row, err := repo.FindIncludingDeleted(server.ID)
	require.NoError(t, err)
	assert.Equal(t, "gone", row.Name)
	assert.True(t, row.DeletedAt.Valid)
}

func TestSoftDeleteMissingRow(t *testing.T) {
	repo := NewServerRepository(newTestDB(t))

	ok, err := repo.SoftDelete(99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSoftDeleteTwiceReportsMissing(t *testing.T) {
	repo := NewServerRepository(newTestDB(t))
	server := seedServer(t, repo, "once", 1)

	ok, err := repo.SoftDelete(server.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SoftDelete(server.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBulkSetSortOrder(t *testing.T) {
	repo := NewServerRepository(newTestDB(t))

	a := seedServer(t, repo, "a", 1)
	b := seedServer(t, repo, "b", 2)

	err := repo.BulkSetSortOrder([]OrderEntry{
		{ID: a.ID, SortOrder: orderAt(2)},
		{ID: b.ID, SortOrder: orderAt(1)},
	})
	require.NoError(t, err)

	servers, err := repo.ListActiveOrdered()
	require.NoError(t, err)
	assert.Equal(t, "b", servers[0].Name)
	assert.Equal(t, "a", servers[1].Name)
}

func TestBulkSetSortOrderAtomicRollback(t *testing.T) {
	repo := NewServerRepository(newTestDB(t))

	a := seedServer(t, repo, "a", 1)
	b := seedServer(t, repo, "b", 2)

	err := repo.BulkSetSortOrder([]OrderEntry{
		{ID: a.ID, SortOrder: orderAt(9)},
		{ID: 12345, SortOrder: orderAt(1)},
		{ID: b.ID, SortOrder: orderAt(8)},
	})

	var unknown *UnknownIDError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, uint(12345), unknown.ID)

	// No partial writes: both rows keep their original order.
	fresh, err := repo.Find(a.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), fresh.SortOrder)
	fresh, err = repo.Find(b.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), fresh.SortOrder)
}

func TestBulkSetSortOrderRejectsSoftDeleted(t *testing.T) {
	repo := NewServerRepository(newTestDB(t))

	a := seedServer(t, repo, "a", 1)
	_, err := repo.SoftDelete(a.ID)
	require.NoError(t, err)

	err = repo.BulkSetSortOrder([]OrderEntry{{ID: a.ID, SortOrder: orderAt(5)}})
	var unknown *UnknownIDError
	assert.True(t, errors.As(err, &unknown))
}

func TestExists(t *testing.T) {
	repo := NewServerRepository(newTestDB(t))

	server := seedServer(t, repo, "a", 1)

	ok, err := repo.Exists(server.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(999)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.SoftDelete(server.ID)
	require.NoError(t, err)
	ok, err = repo.Exists(server.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
