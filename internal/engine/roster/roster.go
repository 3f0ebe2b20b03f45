// Package roster builds the competitor list of a new session.
//
// Generated competitors get a role from a weighted table, stats shaped by
// that role, a nationality-correct name and cosmetic picks. Manual entrants
// (custom players, celebrity conversions) are normalized and appended after
// the generated ones without consuming any role draw.
package roster

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"gamemaster/internal/domain"
	"gamemaster/internal/random"
)

const (
	MinCount = 20
	MaxCount = 1000

	baseBudget    = 12
	peureuxBudget = 8
	smartBonus    = 2
)

type roleWeight struct {
	Role        domain.Role
	Probability float64
}

// roleTable is walked cumulatively; order matters for reproducibility.
var roleTable = []roleWeight{
	{domain.RoleNormal, 0.60},
	{domain.RoleSportif, 0.11},
	{domain.RolePeureux, 0.10},
	{domain.RoleBrute, 0.11},
	{domain.RoleIntelligent, 0.07},
	{domain.RoleZero, 0.01},
}

func init() {
	if err := validateRoleTable(roleTable); err != nil {
		panic(err)
	}
}

func validateRoleTable(table []roleWeight) error {
	if len(table) == 0 {
		return fmt.Errorf("role table is empty")
	}
	sum := 0.0
	for _, w := range table {
		if w.Probability < 0 {
			return fmt.Errorf("role %s has negative probability", w.Role)
		}
		sum += w.Probability
	}
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("role probabilities sum to %v, want 1", sum)
	}
	return nil
}

// RoleProbabilities returns a copy of the role weights.
func RoleProbabilities() map[domain.Role]float64 {
	out := make(map[domain.Role]float64, len(roleTable))
	for _, w := range roleTable {
		out[w.Role] = w.Probability
	}
	return out
}

// ClampCount forces n into [MinCount, MaxCount] and reports whether it changed.
func ClampCount(n int) (int, bool) {
	switch {
	case n < MinCount:
		return MinCount, true
	case n > MaxCount:
		return MaxCount, true
	default:
		return n, false
	}
}

type Generator struct {
	Src random.Source
}

func New(src random.Source) Generator {
	return Generator{Src: src}
}

// Generate returns count (clamped) generated competitors followed by the
// normalized manual entrants. Numbers run sequentially from 1.
func (g Generator) Generate(count int, manual []domain.Competitor) []domain.Competitor {
	count, _ = ClampCount(count)
	players := make([]domain.Competitor, 0, count+len(manual))
	seen := make(map[string]struct{}, count+len(manual))
	for i := 0; i < count; i++ {
		c := g.competitor(i + 1)
		seen[c.ID] = struct{}{}
		players = append(players, c)
	}
	for _, m := range manual {
		c := normalizeManual(m, len(players)+1, seen)
		seen[c.ID] = struct{}{}
		players = append(players, c)
	}
	return players
}

func (g Generator) competitor(number int) domain.Competitor {
	role := g.DrawRole()
	gender := "M"
	if g.Src.Intn(2) == 1 {
		gender = "F"
	}
	nationality := random.Pick(g.Src, Nationalities())
	return domain.Competitor{
		ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte("competitor|"+strconv.FormatInt(g.Src.Int63(), 10))).String(),
		Number:      number,
		Name:        NameFor(g.Src, nationality, gender),
		Nationality: nationality,
		Gender:      gender,
		Role:        role,
		Stats:       g.DrawStats(role),
		Portrait:    random.Pick(g.Src, portraits),
		Uniform:     random.Pick(g.Src, uniforms),
		Alive:       true,
	}
}

// DrawRole walks the cumulative role table with one uniform draw.
func (g Generator) DrawRole() domain.Role {
	return roleFor(g.Src.Float64())
}

func roleFor(draw float64) domain.Role {
	cumulative := 0.0
	for _, w := range roleTable {
		cumulative += w.Probability
		if draw < cumulative {
			return w.Role
		}
	}
	return roleTable[len(roleTable)-1].Role
}

// DrawStats produces stats for role; every stat ends up in [0,10].
func (g Generator) DrawStats(role domain.Role) domain.Stats {
	var s domain.Stats
	switch role {
	case domain.RoleSportif:
		lead, second, rest := g.leadSplit()
		s = domain.Stats{Intelligence: rest, Force: second, Agilite: lead}
	case domain.RoleBrute:
		lead, second, rest := g.leadSplit()
		s = domain.Stats{Intelligence: rest, Force: lead, Agilite: second}
	case domain.RoleIntelligent:
		intel := random.Between(g.Src, 4, 7)
		rem := baseBudget - intel
		force := g.Src.Intn(rem + 1)
		s = domain.Stats{Intelligence: intel, Force: force, Agilite: rem - force}
		switch g.Src.Intn(3) {
		case 0:
			s.Intelligence += smartBonus
		case 1:
			s.Force += smartBonus
		default:
			s.Agilite += smartBonus
		}
	case domain.RoleZero:
		s = domain.Stats{
			Intelligence: random.Between(g.Src, 4, 10),
			Force:        random.Between(g.Src, 4, 10),
			Agilite:      random.Between(g.Src, 4, 10),
		}
	case domain.RolePeureux:
		s = g.split(peureuxBudget)
	default:
		s = g.split(baseBudget)
	}
	return s.Clamp()
}

// split spreads budget over the three stats, rotating which stat draws first.
func (g Generator) split(budget int) domain.Stats {
	a := g.Src.Intn(budget + 1)
	b := g.Src.Intn(budget - a + 1)
	c := budget - a - b
	switch g.Src.Intn(3) {
	case 0:
		return domain.Stats{Intelligence: a, Force: b, Agilite: c}
	case 1:
		return domain.Stats{Intelligence: c, Force: a, Agilite: b}
	default:
		return domain.Stats{Intelligence: b, Force: c, Agilite: a}
	}
}

// leadSplit draws a lead stat in 4..7, a correlated second stat in
// lead-2..lead+1 and gives the rest of the budget to the third, floored at 0.
func (g Generator) leadSplit() (lead, second, rest int) {
	lead = random.Between(g.Src, 4, 7)
	second = random.Between(g.Src, lead-2, lead+1)
	rest = baseBudget - lead - second
	if rest < 0 {
		rest = 0
	}
	return lead, second, rest
}

func normalizeManual(m domain.Competitor, number int, seen map[string]struct{}) domain.Competitor {
	c := m
	c.Number = number
	c.Alive = true
	c.Kills = 0
	c.Betrayals = 0
	c.SurvivedEvents = 0
	c.TotalScore = 0
	c.Stats = c.Stats.Clamp()
	if !c.Role.Valid() {
		c.Role = domain.RoleNormal
	}
	if c.Gender != "F" {
		c.Gender = "M"
	}
	if strings.TrimSpace(c.Nationality) == "" {
		c.Nationality = defaultNationality
	}
	if strings.TrimSpace(c.Name) == "" {
		c.Name = fmt.Sprintf("Joueur %03d", number)
	}
	if !c.IsCelebrity {
		c.IsCustom = true
	}
	if _, dup := seen[c.ID]; c.ID == "" || dup {
		c.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("manual|%d|%s", number, c.Name))).String()
	}
	return c
}

// Celebrity is a VIP guest converted into a competitor.
type Celebrity struct {
	Name        string       `json:"name"`
	Nationality string       `json:"nationality,omitempty"`
	Gender      string       `json:"gender,omitempty" enum:"M,F"`
	Role        domain.Role  `json:"role,omitempty"`
	Stats       domain.Stats `json:"stats"`
	Portrait    string       `json:"portrait,omitempty"`
}

// FromCelebrity converts a celebrity into a manual entrant.
func FromCelebrity(c Celebrity) domain.Competitor {
	return domain.Competitor{
		Name:        c.Name,
		Nationality: c.Nationality,
		Gender:      c.Gender,
		Role:        c.Role,
		Stats:       c.Stats,
		Portrait:    c.Portrait,
		Uniform:     "celebrity",
		IsCelebrity: true,
	}
}
