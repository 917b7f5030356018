package material

import (
	"sort"
	"strings"

	"github.com/cuemby/printplan/pkg/types"
)

// colorSynonyms maps loosely-spelled or Hebrew color names to the canonical
// English name used throughout the planner. Extend this table as new
// spellings show up in project or inventory records.
var colorSynonyms = map[string]string{
	"שחור": "black",
	"לבן":  "white",
	"אדום": "red",
	"כחול": "blue",
	"ירוק": "green",
	"צהוב": "yellow",
	"אפור": "gray",
	"grey": "gray",
	"blk":  "black",
	"wht":  "white",
}

// NormalizeColor lowercases, trims, and resolves a color name through the
// synonym table so "Black", " black ", and "שחור" all compare equal.
func NormalizeColor(color string) string {
	normalized := strings.ToLower(strings.TrimSpace(color))
	if canonical, ok := colorSynonyms[normalized]; ok {
		return canonical
	}
	return normalized
}

// View answers material-availability questions from a snapshot of color
// inventory and spools.
type View struct {
	inventory []*types.ColorInventoryItem
	spools    []*types.Spool
}

// NewView builds a material View from the current inventory and spool
// snapshots.
func NewView(inventory []*types.ColorInventoryItem, spools []*types.Spool) *View {
	return &View{inventory: inventory, spools: spools}
}

// AvailableGrams sums, over every ColorInventoryItem whose normalized color
// matches, (closedCount × closedSpoolSize + openTotalGrams). Spools only
// contribute when their color has no ColorInventoryItem entry at all —
// the inventory table is the authoritative source once it exists for a
// color.
func (v *View) AvailableGrams(color string) float64 {
	target := NormalizeColor(color)

	var total float64
	matched := false
	for _, item := range v.inventory {
		if NormalizeColor(item.Color) != target {
			continue
		}
		matched = true
		total += float64(item.ClosedCount)*item.ClosedSpoolSize + item.OpenTotalGrams
	}

	if matched {
		return total
	}

	for _, spool := range v.spools {
		if NormalizeColor(spool.Color) != target {
			continue
		}
		if spool.State == types.SpoolStateEmpty {
			continue
		}
		total += spool.EstimatedGramsLeft
	}
	return total
}

// SuggestSpools returns up to n spool IDs matching color, fullest first, for
// an operator to load when a cycle is waiting_for_spool.
func (v *View) SuggestSpools(color string, n int) []string {
	target := NormalizeColor(color)

	var matches []*types.Spool
	for _, spool := range v.spools {
		if NormalizeColor(spool.Color) != target {
			continue
		}
		if spool.State == types.SpoolStateEmpty {
			continue
		}
		matches = append(matches, spool)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].EstimatedGramsLeft > matches[j].EstimatedGramsLeft
	})
	if len(matches) > n {
		matches = matches[:n]
	}

	ids := make([]string, len(matches))
	for i, s := range matches {
		ids[i] = s.ID
	}
	return ids
}

// SpoolCount returns the number of non-empty spools matching color,
// independent of the ColorInventoryItem aggregation — used by the engine's
// readiness check, which limits how many printers run a color at once by
// discrete spool count rather than total grams.
func (v *View) SpoolCount(color string) int {
	target := NormalizeColor(color)
	count := 0
	for _, spool := range v.spools {
		if NormalizeColor(spool.Color) != target {
			continue
		}
		if spool.State == types.SpoolStateEmpty {
			continue
		}
		count++
	}
	return count
}
