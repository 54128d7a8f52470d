package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandhub/domain"
)

func TestNewVersion(t *testing.T) {
	v := domain.NewVersion()
	assert.Equal(t, int64(1), v.Value())
	assert.False(t, v.IsZero())
}

func TestVersionFromStored(t *testing.T) {
	v, err := domain.VersionFromStored(42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Value())

	for _, n := range []int64{0, -1, -100} {
		_, err := domain.VersionFromStored(n)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidVersion))
	}
}

// TestVersionNext Next 是纯函数，不修改接收者
func TestVersionNext(t *testing.T) {
	v := domain.NewVersion()
	next := v.Next()

	assert.Equal(t, int64(1), v.Value())
	assert.Equal(t, int64(2), next.Value())
	assert.Equal(t, int64(3), next.Next().Value())
}

func TestVersionEquals(t *testing.T) {
	a, _ := domain.VersionFromStored(7)
	b, _ := domain.VersionFromStored(7)
	c, _ := domain.VersionFromStored(8)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

// TestVersionZeroSentinel 零值是“未指定”哨兵，不是合法版本号
func TestVersionZeroSentinel(t *testing.T) {
	var v domain.Version
	assert.True(t, v.IsZero())
	assert.False(t, domain.NewVersion().IsZero())
}
