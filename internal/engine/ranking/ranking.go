// Package ranking orders a terminal roster into the final standings.
package ranking

import (
	"sort"

	"gamemaster/internal/domain"
)

// Rank sorts alive competitors before eliminated ones, then by total score
// descending, then by number ascending, and assigns 1-based positions.
// players is only read.
func Rank(players []domain.Competitor) []domain.RankedEntry {
	ordered := append([]domain.Competitor(nil), players...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return Less(ordered[i], ordered[j])
	})
	entries := make([]domain.RankedEntry, 0, len(ordered))
	for i, c := range ordered {
		entries = append(entries, domain.RankedEntry{
			Position:    i + 1,
			ID:          c.ID,
			Number:      c.Number,
			Name:        c.Name,
			Nationality: c.Nationality,
			Role:        c.Role,
			Alive:       c.Alive,
			IsCustom:    c.IsCustom,
			IsCelebrity: c.IsCelebrity,
			GameStats: domain.GameStats{
				TotalScore:     c.TotalScore,
				SurvivedEvents: c.SurvivedEvents,
				Kills:          c.Kills,
				Betrayals:      c.Betrayals,
			},
		})
	}
	return entries
}

// Less reports whether a ranks strictly ahead of b.
func Less(a, b domain.Competitor) bool {
	if a.Alive != b.Alive {
		return a.Alive
	}
	if a.TotalScore != b.TotalScore {
		return a.TotalScore > b.TotalScore
	}
	return a.Number < b.Number
}

// Winner returns the first entry when it is alive, nil otherwise.
func Winner(entries []domain.RankedEntry) *domain.RankedEntry {
	if len(entries) == 0 || !entries[0].Alive {
		return nil
	}
	w := entries[0]
	return &w
}
