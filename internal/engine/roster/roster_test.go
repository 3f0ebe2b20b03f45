package roster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamemaster/internal/domain"
	"gamemaster/internal/random"
)

func TestRoleTableSumsToOne(t *testing.T) {
	sum := 0.0
	for _, p := range RoleProbabilities() {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	require.NoError(t, validateRoleTable(roleTable))
}

func TestValidateRoleTableRejectsBadTables(t *testing.T) {
	tests := []struct {
		name  string
		table []roleWeight
	}{
		{name: "empty", table: nil},
		{name: "short", table: []roleWeight{{domain.RoleNormal, 0.5}}},
		{name: "negative", table: []roleWeight{{domain.RoleNormal, 1.2}, {domain.RoleZero, -0.2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, validateRoleTable(tt.table))
		})
	}
}

func TestRoleForWalksCumulativeBounds(t *testing.T) {
	tests := []struct {
		draw float64
		want domain.Role
	}{
		{0, domain.RoleNormal},
		{0.5999, domain.RoleNormal},
		{0.60, domain.RoleSportif},
		{0.705, domain.RoleSportif},
		{0.715, domain.RolePeureux},
		{0.815, domain.RoleBrute},
		{0.925, domain.RoleIntelligent},
		{0.995, domain.RoleZero},
		{0.9999999, domain.RoleZero},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, roleFor(tt.draw), "draw %v", tt.draw)
	}
}

func TestRoleFrequenciesConverge(t *testing.T) {
	g := New(random.New(2024))
	const n = 200000
	counts := map[domain.Role]int{}
	for i := 0; i < n; i++ {
		counts[g.DrawRole()]++
	}
	for role, p := range RoleProbabilities() {
		observed := float64(counts[role]) / n
		// five standard deviations of a binomial proportion
		tolerance := 5 * math.Sqrt(p*(1-p)/n)
		assert.InDelta(t, p, observed, tolerance, "role %s", role)
	}
}

func TestStatsStayInRangeForEveryRole(t *testing.T) {
	g := New(random.New(99))
	for _, role := range domain.Roles {
		t.Run(string(role), func(t *testing.T) {
			for i := 0; i < 5000; i++ {
				s := g.DrawStats(role)
				for _, v := range []int{s.Intelligence, s.Force, s.Agilite} {
					require.GreaterOrEqual(t, v, domain.StatMin)
					require.LessOrEqual(t, v, domain.StatMax)
				}
			}
		})
	}
}

func TestStatShapesPerRole(t *testing.T) {
	g := New(random.New(5))
	for i := 0; i < 2000; i++ {
		n := g.DrawStats(domain.RoleNormal)
		// a single stat may draw up to 12 before the ceiling of 10 applies
		assert.True(t, total(n) >= 10 && total(n) <= 12, "normal total %d", total(n))

		p := g.DrawStats(domain.RolePeureux)
		assert.Equal(t, 8, total(p))

		sp := g.DrawStats(domain.RoleSportif)
		assert.True(t, sp.Agilite >= 4 && sp.Agilite <= 7, "sportif agilité %d", sp.Agilite)
		assert.True(t, sp.Force >= sp.Agilite-2 && sp.Force <= sp.Agilite+1, "sportif force %d", sp.Force)

		br := g.DrawStats(domain.RoleBrute)
		assert.True(t, br.Force >= 4 && br.Force <= 7, "brute force %d", br.Force)
		assert.True(t, br.Agilite >= br.Force-2 && br.Agilite <= br.Force+1, "brute agilité %d", br.Agilite)

		in := g.DrawStats(domain.RoleIntelligent)
		assert.GreaterOrEqual(t, in.Intelligence, 4)
		assert.Equal(t, 14, total(in))

		z := g.DrawStats(domain.RoleZero)
		for _, v := range []int{z.Intelligence, z.Force, z.Agilite} {
			assert.True(t, v >= 4 && v <= 10, "zero stat %d", v)
		}
	}
}

func total(s domain.Stats) int {
	return s.Intelligence + s.Force + s.Agilite
}

func TestGenerateClampsCount(t *testing.T) {
	tests := []struct {
		in      int
		want    int
		clamped bool
	}{
		{in: -3, want: MinCount, clamped: true},
		{in: 5, want: MinCount, clamped: true},
		{in: 20, want: 20, clamped: false},
		{in: 456, want: 456, clamped: false},
		{in: 1000, want: 1000, clamped: false},
		{in: 5000, want: MaxCount, clamped: true},
	}
	for _, tt := range tests {
		got, clamped := ClampCount(tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.clamped, clamped)
	}
	players := New(random.New(1)).Generate(3, nil)
	assert.Len(t, players, MinCount)
}

func TestGenerateNumbersAndIDs(t *testing.T) {
	manual := []domain.Competitor{
		{ID: "custom-1", Name: "Ali Abdul", Nationality: "Pakistanaise", Role: domain.RoleSportif, Stats: domain.Stats{Intelligence: 3, Force: 14, Agilite: -2}, Alive: false, Kills: 4, TotalScore: 80},
		{ID: "custom-1", Name: "Duplicate"},
		FromCelebrity(Celebrity{Name: "Star", Role: "unknown", Stats: domain.Stats{Intelligence: 9, Force: 9, Agilite: 9}}),
	}
	players := New(random.New(11)).Generate(25, manual)
	require.Len(t, players, 28)

	ids := map[string]bool{}
	for i, p := range players {
		assert.Equal(t, i+1, p.Number)
		assert.True(t, p.Alive)
		assert.False(t, ids[p.ID], "duplicate id %s", p.ID)
		ids[p.ID] = true
		assert.NotEmpty(t, p.Name)
		assert.Contains(t, []string{"M", "F"}, p.Gender)
	}

	custom := players[25]
	assert.Equal(t, "custom-1", custom.ID)
	assert.True(t, custom.IsCustom)
	assert.Zero(t, custom.Kills)
	assert.Zero(t, custom.TotalScore)
	assert.Equal(t, domain.Stats{Intelligence: 3, Force: 10, Agilite: 0}, custom.Stats)

	dup := players[26]
	assert.NotEqual(t, "custom-1", dup.ID)
	assert.Equal(t, defaultNationality, dup.Nationality)

	celeb := players[27]
	assert.True(t, celeb.IsCelebrity)
	assert.False(t, celeb.IsCustom)
	assert.Equal(t, domain.RoleNormal, celeb.Role)
}

func TestManualEntrantsDoNotConsumeDraws(t *testing.T) {
	plain := New(random.New(77)).Generate(30, nil)
	withManual := New(random.New(77)).Generate(30, []domain.Competitor{{Name: "Guest"}})
	require.Len(t, withManual, 31)
	assert.Equal(t, plain, withManual[:30])
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := New(random.New(3)).Generate(50, nil)
	b := New(random.New(3)).Generate(50, nil)
	assert.Equal(t, a, b)
}

func TestNameForFallsBackOnUnknownNationality(t *testing.T) {
	src := random.New(8)
	for i := 0; i < 50; i++ {
		name := NameFor(src, "Atlante", "F")
		assert.NotEmpty(t, name)
	}
	for _, n := range Nationalities() {
		assert.NotEmpty(t, NameFor(src, n, "M"))
	}
}
