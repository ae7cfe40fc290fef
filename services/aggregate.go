package services

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"superhost-analysis/models"
)

const keySep = "\x1f"

// PercentCountGroupBy counts listings per (outer, inner...) group and expresses
// each count as a percentage of its outer group. Listings without an id or with
// a missing group label are left out, as are empty groups.
func PercentCountGroupBy(listings []*models.Listing, outer string, inner ...string) []models.PercentRow {
	cols := append([]string{outer}, inner...)

	counted := lo.Filter(listings, func(l *models.Listing, _ int) bool {
		if l.ID == "" {
			return false
		}
		for _, c := range cols {
			if l.Category(c) == "" {
				return false
			}
		}
		return true
	})

	groups := lo.GroupBy(counted, func(l *models.Listing) string {
		return strings.Join(lo.Map(cols, func(c string, _ int) string { return l.Category(c) }), keySep)
	})
	outerTotals := lo.CountValuesBy(counted, func(l *models.Listing) string { return l.Category(outer) })

	rows := make([]models.PercentRow, 0, len(groups))
	for key, members := range groups {
		parts := strings.Split(key, keySep)
		rows = append(rows, models.PercentRow{
			Outer:   parts[0],
			Inner:   parts[1:],
			Count:   len(members),
			Percent: 100 * float64(len(members)) / float64(outerTotals[parts[0]]),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Outer != rows[j].Outer {
			return rows[i].Outer < rows[j].Outer
		}
		return strings.Join(rows[i].Inner, keySep) < strings.Join(rows[j].Inner, keySep)
	})
	return rows
}
