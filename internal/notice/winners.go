package notice

import (
	"github.com/tenderhound/tenderhound/internal/domain"
)

// winnerShape tags which of the source schema variants the winner data was
// found under.
type winnerShape int

const (
	winnerAbsent winnerShape = iota
	// winnerDirect: top-level winner_list.winner with
	// winner_name/winner_reg_num keys.
	winnerDirect
	// winnerLegacy: top-level winners.winner with firm/reg_num keys.
	winnerLegacy
	// winnerNested: winner_list under the first contract-award sub-block.
	winnerNested
)

// classifyWinnerSource finds winner data along the fallback chain and tags
// the shape it was found in. Each source may hold a single object or a
// list.
func classifyWinnerSource(d RawDocument) (winnerShape, []any) {
	if v, ok := d.Lookup("winner_list.winner"); ok {
		return winnerDirect, asList(v)
	}
	if v, ok := d.Lookup("winners.winner"); ok {
		return winnerLegacy, asList(v)
	}
	if v, ok := d.Lookup("part_5_list.part_5.winner_list.winner"); ok {
		return winnerNested, asList(v)
	}
	return winnerAbsent, nil
}

// extractWinners normalizes whatever winner shape the document carries into
// an ordered list of Winner values. Entries without both a name and a
// registration number are dropped. Returns nil when no winner data exists
// anywhere in the fallback chain.
func extractWinners(d RawDocument) []domain.Winner {
	shape, raw := classifyWinnerSource(d)
	if shape == winnerAbsent {
		return nil
	}

	nameKey, regKey := "winner_name", "winner_reg_num"
	if shape == winnerLegacy {
		nameKey, regKey = "firm", "reg_num"
	}

	var winners []domain.Winner
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		w := domain.Winner{
			WinnerName:   scalarText(m[nameKey]),
			WinnerRegNum: scalarText(m[regKey]),
		}
		if w.WinnerName == "" && w.WinnerRegNum == "" {
			continue
		}
		winners = append(winners, w)
	}
	return winners
}

// uniqueRegNums returns the distinct registration numbers among winners,
// in first-seen order.
func uniqueRegNums(winners []domain.Winner) []string {
	seen := make(map[string]bool, len(winners))
	var nums []string
	for _, w := range winners {
		if w.WinnerRegNum == "" || seen[w.WinnerRegNum] {
			continue
		}
		seen[w.WinnerRegNum] = true
		nums = append(nums, w.WinnerRegNum)
	}
	return nums
}
