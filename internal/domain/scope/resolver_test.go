package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/joyeria-crm/internal/domain/entity"
	"github.com/jhoicas/joyeria-crm/internal/domain/scope"
)

type rec struct {
	id string
	a  scope.Attributes
}

func (r rec) ScopeAttributes() scope.Attributes { return r.a }

func ids(rs []rec) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.id)
	}
	return out
}

// Colección común: dos tenants, dos tiendas, registros con y sin dueño.
func fixture() []rec {
	return []rec{
		{"1", scope.Attributes{TenantID: "t1", StoreID: "s1", AssigneeID: "u1", Kind: "appointment"}},
		{"2", scope.Attributes{TenantID: "t1", StoreID: "s2", AssigneeID: "u2", Kind: "appointment"}},
		{"3", scope.Attributes{TenantID: "t1", Kind: "campaign", CreatorID: "u9"}},
		{"4", scope.Attributes{TenantID: "t2", StoreID: "s9", OwnerID: "u1", Kind: "announcement"}},
		{"5", scope.Attributes{TenantID: "t1", StoreID: "s1", Floor: 2, CreatorID: "u2"}},
	}
}

func TestResolve_PorRol(t *testing.T) {
	cases := []struct {
		name   string
		user   scope.User
		policy scope.Policy
		want   []string
	}{
		{"business_admin ve todo", scope.User{ID: "a", Role: entity.RoleBusinessAdmin, TenantID: "t1"}, scope.Policy{}, []string{"1", "2", "3", "4", "5"}},
		{"platform_admin en recurso tenant", scope.User{ID: "p", Role: entity.RolePlatformAdmin}, scope.Policy{TenantLevel: true}, []string{"1", "2", "3", "4", "5"}},
		{"platform_admin fuera de recurso tenant", scope.User{ID: "u9", Role: entity.RolePlatformAdmin}, scope.Policy{}, []string{"3"}},
		{"manager tienda s1", scope.User{ID: "m", Role: entity.RoleManager, TenantID: "t1", StoreID: "s1"}, scope.Policy{}, []string{"1", "3", "5"}},
		{"manager con piso 1", scope.User{ID: "m", Role: entity.RoleManager, TenantID: "t1", StoreID: "s1", Floor: 1}, scope.Policy{}, []string{"1", "3"}},
		{"inhouse_sales solo lo propio", scope.User{ID: "u1", Role: entity.RoleInhouseSales, TenantID: "t1"}, scope.Policy{}, []string{"1", "4"}},
		{"tele_calling asignado o tenant", scope.User{ID: "u1", Role: entity.RoleTeleCalling, TenantID: "t1"}, scope.Policy{}, []string{"1", "2", "3", "4", "5"}},
		{"tele_calling otro tenant", scope.User{ID: "u7", Role: entity.RoleTeleCalling, TenantID: "t2"}, scope.Policy{}, []string{"4"}},
		{"marketing por tipo", scope.User{ID: "mk", Role: entity.RoleMarketing, TenantID: "t1"}, scope.Policy{}, []string{"3", "4"}},
		{"marketing tipos propios", scope.User{ID: "mk", Role: entity.RoleMarketing}, scope.Policy{MarketingKinds: []string{"appointment"}}, []string{"1", "2"}},
		{"rol desconocido", scope.User{ID: "u2", Role: "bodeguero", TenantID: "t1"}, scope.Policy{}, []string{"2", "5"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := tc.user
			got := scope.Resolve(&u, fixture(), tc.policy)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestResolve_SinUsuarioDevuelveVacio(t *testing.T) {
	got := scope.Resolve[rec](nil, fixture(), scope.Policy{})
	require.NotNil(t, got, "nunca nil")
	assert.Empty(t, got)
}

func TestResolve_Idempotente(t *testing.T) {
	users := []scope.User{
		{ID: "a", Role: entity.RoleBusinessAdmin},
		{ID: "m", Role: entity.RoleManager, TenantID: "t1", StoreID: "s1"},
		{ID: "u1", Role: entity.RoleInhouseSales},
		{ID: "u1", Role: entity.RoleTeleCalling, TenantID: "t2"},
		{ID: "mk", Role: entity.RoleMarketing},
	}
	for _, u := range users {
		u := u
		once := scope.Resolve(&u, fixture(), scope.Policy{})
		twice := scope.Resolve(&u, once, scope.Policy{})
		assert.Equal(t, once, twice, u.Role)
	}
}

func TestResolve_ConservaOrdenYNoMutaEntrada(t *testing.T) {
	in := fixture()
	u := scope.User{ID: "u2", Role: entity.RoleInhouseSales}
	got := scope.Resolve(&u, in, scope.Policy{})

	assert.Equal(t, []string{"2", "5"}, ids(got))
	assert.Equal(t, fixture(), in)
}

func TestVisible_ManagerSinTenantNoVeNada(t *testing.T) {
	u := &scope.User{ID: "m", Role: entity.RoleManager}
	assert.False(t, scope.Visible(u, scope.Attributes{}, scope.Policy{}),
		"tenant vacío en ambos lados no cuenta como coincidencia")
}

func TestVisible_UsuarioSinIDNoPoseeNada(t *testing.T) {
	u := &scope.User{Role: entity.RoleInhouseSales}
	assert.False(t, scope.Visible(u, scope.Attributes{OwnerID: ""}, scope.Policy{}))
}
