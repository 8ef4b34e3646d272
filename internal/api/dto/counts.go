package dto

import "sort"

// SortedCounts orders companies by count descending, then by name.
func SortedCounts(counts map[string]int) []CompanyCount {
	out := make([]CompanyCount, 0, len(counts))
	for company, n := range counts {
		out = append(out, CompanyCount{Company: company, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Company < out[j].Company
	})
	return out
}
