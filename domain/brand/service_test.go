package brand_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandhub/domain"
	"brandhub/domain/brand"
	"brandhub/logging"
	"brandhub/notify"
	"brandhub/storage/brandmem"
)

func newService(t *testing.T, policy domain.LockPolicy, opts ...brand.ServiceOption) *brand.Service {
	t.Helper()
	opts = append(opts, brand.WithLogger(logging.NewNoopLogger()))
	return brand.NewService(brandmem.NewRepository(), policy, opts...)
}

func strPtr(s string) *string { return &s }
func i64Ptr(n int64) *int64   { return &n }

func TestServiceCreate(t *testing.T) {
	svc := newService(t, domain.NewLockPolicy(true))

	b, err := svc.Create(context.Background(), "Acme", "desc", domain.StatusDraft.Code(), "alice")
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Equal(t, int64(1), b.Version.Value())
}

func TestServiceCreateUnknownStatusCode(t *testing.T) {
	svc := newService(t, domain.NewLockPolicy(true))

	_, err := svc.Create(context.Background(), "Acme", "", 99, "alice")
	require.Error(t, err)
}

// TestServiceUpdateRequiresLockVersion 策略强制时缺少版本号直接拒绝，不触达存储
func TestServiceUpdateRequiresLockVersion(t *testing.T) {
	svc := newService(t, domain.NewLockPolicy(true))
	b, err := svc.Create(context.Background(), "Acme", "", domain.StatusDraft.Code(), "alice")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), b.ID, nil, brand.Change{Name: strPtr("Acme2")}, "bob")
	require.Error(t, err)

	got, err := svc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
}

// TestServiceUpdateWaivedPolicy 策略豁免：不带版本号也能更新，CAS 机制本身不豁免
func TestServiceUpdateWaivedPolicy(t *testing.T) {
	svc := newService(t, domain.NewLockPolicy(true, brand.PolicyKey))
	b, err := svc.Create(context.Background(), "Acme", "", domain.StatusDraft.Code(), "alice")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), b.ID, nil, brand.Change{Name: strPtr("Acme2")}, "bob")
	require.NoError(t, err)
	assert.Equal(t, "Acme2", updated.Name)
	assert.Equal(t, int64(2), updated.Version.Value(), "豁免路径同样递增版本")
}

// TestServiceUpdateStaleVersion 场景 A：同一版本号的第二次提交冲突
func TestServiceUpdateStaleVersion(t *testing.T) {
	svc := newService(t, domain.NewLockPolicy(true))
	b, err := svc.Create(context.Background(), "Acme", "", domain.StatusDraft.Code(), "alice")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), b.ID, i64Ptr(1), brand.Change{Name: strPtr("Acme2")}, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version.Value())

	_, err = svc.Update(context.Background(), b.ID, i64Ptr(1), brand.Change{Name: strPtr("Acme3")}, "carol")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrVersionConflict))

	var derr *domain.DomainError
	require.True(t, domain.AsDomainError(err, &derr))
	assert.Equal(t, int64(1), derr.Expected)
	assert.Equal(t, int64(2), derr.Actual)
}

func TestServiceUpdateInvalidClientVersion(t *testing.T) {
	svc := newService(t, domain.NewLockPolicy(true))
	b, err := svc.Create(context.Background(), "Acme", "", domain.StatusDraft.Code(), "alice")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), b.ID, i64Ptr(0), brand.Change{Name: strPtr("x")}, "bob")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidVersion))
}

func TestServiceUpdateEmptyChange(t *testing.T) {
	svc := newService(t, domain.NewLockPolicy(true))
	_, err := svc.Update(context.Background(), 1, i64Ptr(1), brand.Change{}, "bob")
	require.Error(t, err)
}

// TestServiceDeleteFlow 场景 D：删除成功递增版本并锁定，后续更新被拒绝
func TestServiceDeleteFlow(t *testing.T) {
	svc := newService(t, domain.NewLockPolicy(true))
	b, err := svc.Create(context.Background(), "Acme", "", domain.StatusDraft.Code(), "alice")
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), b.ID, i64Ptr(1), "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeleted, deleted.Status)
	assert.Equal(t, int64(2), deleted.Version.Value())

	_, err = svc.Update(context.Background(), b.ID, i64Ptr(2), brand.Change{Name: strPtr("x")}, "bob")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStatusLocked))
}

// TestServiceDeleteActiveForbidden 流转表是权威：Active 不允许直接删除
func TestServiceDeleteActiveForbidden(t *testing.T) {
	svc := newService(t, domain.NewLockPolicy(true))
	b, err := svc.Create(context.Background(), "Acme", "", domain.StatusActive.Code(), "alice")
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), b.ID, i64Ptr(1), "alice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidStatusTransition))
}

func TestServiceGetNotFound(t *testing.T) {
	svc := newService(t, domain.NewLockPolicy(true))
	_, err := svc.Get(context.Background(), 12345)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEntityNotFound))
}

// recordingCache 记录失效调用的测试缓存
type recordingCache struct {
	store       map[int64]*brand.Brand
	invalidated []int64
}

func newRecordingCache() *recordingCache {
	return &recordingCache{store: make(map[int64]*brand.Brand)}
}

func (c *recordingCache) Get(ctx context.Context, id int64) (*brand.Brand, bool) {
	b, ok := c.store[id]
	return b, ok
}
func (c *recordingCache) Set(ctx context.Context, b *brand.Brand) { c.store[b.ID] = b }
func (c *recordingCache) Invalidate(ctx context.Context, id int64) {
	delete(c.store, id)
	c.invalidated = append(c.invalidated, id)
}

func TestServiceCacheInvalidation(t *testing.T) {
	cache := newRecordingCache()
	svc := newService(t, domain.NewLockPolicy(true), brand.WithCache(cache))

	b, err := svc.Create(context.Background(), "Acme", "", domain.StatusDraft.Code(), "alice")
	require.NoError(t, err)

	// 读穿缓存
	_, err = svc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	_, cached := cache.store[b.ID]
	assert.True(t, cached)

	_, err = svc.Update(context.Background(), b.ID, i64Ptr(1), brand.Change{Name: strPtr("Acme2")}, "bob")
	require.NoError(t, err)
	assert.Contains(t, cache.invalidated, b.ID)

	got, err := svc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme2", got.Name)
}

func TestServiceChangeNotification(t *testing.T) {
	notifier := notify.NewMemoryNotifier()
	var events []brand.ChangeEvent
	notifier.Subscribe(func(evt brand.ChangeEvent) { events = append(events, evt) })

	svc := newService(t, domain.NewLockPolicy(true), brand.WithNotifier(notifier))

	b, err := svc.Create(context.Background(), "Acme", "", domain.StatusDraft.Code(), "alice")
	require.NoError(t, err)

	active := domain.StatusActive
	_, err = svc.Update(context.Background(), b.ID, i64Ptr(1), brand.Change{Status: &active}, "bob")
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, brand.ActionCreate, events[0].Action)
	assert.Equal(t, brand.ActionTransition, events[1].Action)
	require.NotNil(t, events[1].PriorStatus)
	require.NotNil(t, events[1].NewStatus)
	assert.Equal(t, domain.StatusDraft.Code(), *events[1].PriorStatus)
	assert.Equal(t, domain.StatusActive.Code(), *events[1].NewStatus)
	assert.Equal(t, int64(2), events[1].Version)
}

func TestServiceAuditTrail(t *testing.T) {
	svc := newService(t, domain.NewLockPolicy(true))
	b, err := svc.Create(context.Background(), "Acme", "", domain.StatusDraft.Code(), "alice")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), b.ID, i64Ptr(1), brand.Change{Name: strPtr("Acme2")}, "bob")
	require.NoError(t, err)

	records, err := svc.AuditTrail(context.Background(), b.ID, 0, 100)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, brand.ActionCreate, records[0].Action)
	assert.Equal(t, brand.ActionUpdate, records[1].Action)
	assert.Equal(t, "bob", records[1].Actor)
}
