package pipeline

import "strings"

// Consolidate groups records that share a first order ID and keeps one
// representative per group, the record with the highest OCR confidence. The
// representative's file name becomes the joined list of all member files and
// the losers are flagged as duplicates. Records without an order ID pass
// through untouched. Input order is preserved.
func Consolidate(records []ExtractionRecord) []ExtractionRecord {
	type group struct {
		bestIdx int
		members []int
	}
	groups := map[string]*group{}
	order := []string{}

	for i := range records {
		r := &records[i]
		if r.Fields == nil || len(r.Fields.OrderIDs) == 0 {
			continue
		}
		id := r.Fields.OrderIDs[0]
		g, ok := groups[id]
		if !ok {
			groups[id] = &group{bestIdx: i, members: []int{i}}
			order = append(order, id)
			continue
		}
		g.members = append(g.members, i)
		if r.OCRConfidence > records[g.bestIdx].OCRConfidence {
			g.bestIdx = i
		}
	}

	drop := map[int]bool{}
	for _, id := range order {
		g := groups[id]
		if len(g.members) < 2 {
			continue
		}
		names := make([]string, 0, len(g.members))
		for _, idx := range g.members {
			names = append(names, records[idx].FileName)
			if idx != g.bestIdx {
				drop[idx] = true
			}
		}
		records[g.bestIdx].FileName = strings.Join(names, " + ")
		records[g.bestIdx].IsDuplicate = true
	}

	out := make([]ExtractionRecord, 0, len(records))
	for i := range records {
		if !drop[i] {
			out = append(out, records[i])
		}
	}
	return out
}
