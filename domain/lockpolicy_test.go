package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"brandhub/domain"
)

func TestLockPolicyEnforced(t *testing.T) {
	p := domain.NewLockPolicy(true)
	assert.True(t, p.IsEnforced("brand"))
	assert.True(t, p.IsEnforced("example"))
}

func TestLockPolicyGloballyDisabled(t *testing.T) {
	p := domain.NewLockPolicy(false)
	assert.False(t, p.IsEnforced("brand"))
	assert.False(t, p.Enabled())
}

// TestLockPolicyExemptions 豁免列表的 key 会被规范化比较
func TestLockPolicyExemptions(t *testing.T) {
	p := domain.NewLockPolicy(true, "Brand", "  EXAMPLE  ", "")

	assert.False(t, p.IsEnforced("brand"))
	assert.False(t, p.IsEnforced(" BRAND "))
	assert.False(t, p.IsEnforced("example"))
	assert.True(t, p.IsEnforced("other"))
}
