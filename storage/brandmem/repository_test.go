package brandmem_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandhub/domain"
	"brandhub/domain/brand"
	"brandhub/storage/brandmem"
)

func mustCreate(t *testing.T, repo *brandmem.Repository, status domain.Status) *brand.Brand {
	t.Helper()
	b, err := brand.Create("Acme", "desc", status, "alice")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func strPtr(s string) *string { return &s }

func TestCreateAssignsID(t *testing.T) {
	repo := brandmem.NewRepository()
	a := mustCreate(t, repo, domain.StatusDraft)
	b := mustCreate(t, repo, domain.StatusDraft)
	assert.NotZero(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestFindByIDReturnsCopy(t *testing.T) {
	repo := brandmem.NewRepository()
	created := mustCreate(t, repo, domain.StatusDraft)

	got, found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, found)

	got.Name = "mutated"
	again, _, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", again.Name)
}

func TestUpdateMatchingVersion(t *testing.T) {
	repo := brandmem.NewRepository()
	created := mustCreate(t, repo, domain.StatusDraft)

	updated, err := repo.Update(context.Background(), created.ID, created.Version,
		brand.Change{Name: strPtr("Acme2")}, "bob")
	require.NoError(t, err)
	assert.Equal(t, "Acme2", updated.Name)
	assert.Equal(t, int64(2), updated.Version.Value())
	assert.Equal(t, "bob", updated.UpdatedBy)
}

func TestUpdateStaleVersion(t *testing.T) {
	repo := brandmem.NewRepository()
	created := mustCreate(t, repo, domain.StatusDraft)

	_, err := repo.Update(context.Background(), created.ID, created.Version,
		brand.Change{Name: strPtr("Acme2")}, "bob")
	require.NoError(t, err)

	_, err = repo.Update(context.Background(), created.ID, created.Version,
		brand.Change{Name: strPtr("Acme3")}, "carol")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrVersionConflict))
}

func TestUpdateMissingEntity(t *testing.T) {
	repo := brandmem.NewRepository()
	v, err := domain.VersionFromStored(1)
	require.NoError(t, err)

	_, err = repo.Update(context.Background(), 999, v, brand.Change{Name: strPtr("x")}, "bob")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEntityNotFound))
	assert.False(t, errors.Is(err, domain.ErrVersionConflict))
}

// TestUpdateLockedPrecedesVersionCheck 锁定预检先于版本检查：
// 版本号对不对都一样返回 StatusLocked
func TestUpdateLockedPrecedesVersionCheck(t *testing.T) {
	repo := brandmem.NewRepository()
	created := mustCreate(t, repo, domain.StatusDraft)

	deleted, err := repo.Delete(context.Background(), created.ID, created.Version, "alice")
	require.NoError(t, err)
	require.Equal(t, domain.StatusDeleted, deleted.Status)

	// 正确版本
	_, err = repo.Update(context.Background(), created.ID, deleted.Version,
		brand.Change{Name: strPtr("x")}, "bob")
	assert.True(t, errors.Is(err, domain.ErrStatusLocked))

	// 陈旧版本
	_, err = repo.Update(context.Background(), created.ID, created.Version,
		brand.Change{Name: strPtr("x")}, "bob")
	assert.True(t, errors.Is(err, domain.ErrStatusLocked))
	assert.False(t, errors.Is(err, domain.ErrVersionConflict))
}

func TestUpdateForbiddenTransition(t *testing.T) {
	repo := brandmem.NewRepository()
	created := mustCreate(t, repo, domain.StatusActive)

	target := domain.StatusDraft
	_, err := repo.Update(context.Background(), created.ID, created.Version,
		brand.Change{Status: &target}, "bob")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidStatusTransition))

	got, _, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)
	assert.Equal(t, int64(1), got.Version.Value(), "被拒绝的流转不得递增版本")
}

// TestUpdateZeroVersionSubstitution 零值哨兵：代入当前持久化版本号，仍然条件写
func TestUpdateZeroVersionSubstitution(t *testing.T) {
	repo := brandmem.NewRepository()
	created := mustCreate(t, repo, domain.StatusDraft)

	updated, err := repo.Update(context.Background(), created.ID, domain.Version{},
		brand.Change{Name: strPtr("Acme2")}, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version.Value())

	again, err := repo.Update(context.Background(), created.ID, domain.Version{},
		brand.Change{Name: strPtr("Acme3")}, "carol")
	require.NoError(t, err)
	assert.Equal(t, int64(3), again.Version.Value())
}

func TestDeleteExcludedFromList(t *testing.T) {
	repo := brandmem.NewRepository()
	a := mustCreate(t, repo, domain.StatusDraft)
	mustCreate(t, repo, domain.StatusDraft)

	_, err := repo.Delete(context.Background(), a.ID, a.Version, "alice")
	require.NoError(t, err)

	list, err := repo.List(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotEqual(t, a.ID, list[0].ID)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// 已删除实体仍然可以按 ID 查到
	got, found, err := repo.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.StatusDeleted, got.Status)
}

func TestAuditTrailAccumulates(t *testing.T) {
	repo := brandmem.NewRepository()
	created := mustCreate(t, repo, domain.StatusDraft)

	updated, err := repo.Update(context.Background(), created.ID, created.Version,
		brand.Change{Name: strPtr("Acme2")}, "bob")
	require.NoError(t, err)
	_, err = repo.Delete(context.Background(), created.ID, updated.Version, "carol")
	require.NoError(t, err)

	records, err := repo.AuditTrail(context.Background(), created.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, brand.ActionCreate, records[0].Action)
	assert.Equal(t, brand.ActionUpdate, records[1].Action)
	assert.Equal(t, brand.ActionDelete, records[2].Action)
	assert.Equal(t, int64(3), records[2].Version)
}

// TestConcurrentUpdateSingleWinner N 个写者带同一期望版本号并发提交：
// 恰好一个成功，其余全部版本冲突
func TestConcurrentUpdateSingleWinner(t *testing.T) {
	repo := brandmem.NewRepository()
	created := mustCreate(t, repo, domain.StatusDraft)

	const writers = 32
	results := make([]error, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "writer"
			_, err := repo.Update(context.Background(), created.ID, created.Version,
				brand.Change{Name: &name}, "racer")
			results[i] = err
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrVersionConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, writers-1, conflicts)

	got, _, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version.Value(), "失败的写者不得递增版本")
}
