package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCashierDefaults(t *testing.T) {
	p := NewPrincipal("u1", "Aziz", "aziz@sp.uz", RoleCashier, "s1", "Asosiy Do'kon #1", nil)

	assert.True(t, p.Can("pos"))
	assert.True(t, p.Can("chek"))

	for _, capability := range []string{
		"dashboard_owner", "dashboard_creator", "inventory", "employees",
		"reports", "analytics", "nasiya", "settings", "finance", "stores",
	} {
		assert.False(t, p.Can(capability), "cashier should not reach %s", capability)
	}
}

func TestOverrideIgnoresRoleDefaults(t *testing.T) {
	// An explicit permission list replaces the role defaults entirely.
	p := NewPrincipal("u2", "Sardor", "sardor@sp.uz", RoleCashier, "s1", "", []string{"inventory"})

	assert.True(t, p.Can("inventory"))
	assert.False(t, p.Can("pos"))
	assert.False(t, p.Can("chek"))
}

func TestNilPrincipalFailsEverything(t *testing.T) {
	var p *Principal
	assert.False(t, p.Can("pos"))
	assert.Nil(t, p.Permissions())
}

func TestRolePermissions(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"dashboard_creator", "stores", "all_stats", "create_owner"},
		RolePermissions(RoleCreator))
	assert.ElementsMatch(t,
		[]string{"dashboard_owner", "pos", "inventory", "nasiya", "reports", "chek", "finance"},
		RolePermissions(RoleManager))
	assert.Len(t, RolePermissions(RoleOwner), 10)
	assert.Empty(t, RolePermissions(Role("ghost")))
}

func TestResolvePermissions_CopiesInput(t *testing.T) {
	override := []string{"pos"}
	resolved := ResolvePermissions(RoleOwner, override)
	resolved[0] = "mutated"
	assert.Equal(t, "pos", override[0])
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleOwner.Valid())
	assert.True(t, RoleCashier.Valid())
	assert.False(t, Role("admin").Valid())
}
