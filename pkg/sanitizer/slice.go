package sanitizer

import "github.com/samber/lo"

// NormalizeStringSlice normalizes every item, then drops empties and
// duplicates keeping the first occurrence.
func NormalizeStringSlice(items []string, normalizer func(string) string) []string {
	if len(items) == 0 {
		return []string{}
	}

	normalized := lo.Map(items, func(item string, _ int) string {
		return normalizer(item)
	})
	return lo.Uniq(lo.Compact(normalized))
}

// NormalizeIDs trims ids and removes empties and duplicates. Ids are
// case-sensitive and are not otherwise altered.
func NormalizeIDs(ids []string) []string {
	return NormalizeStringSlice(ids, TrimAndNormalize)
}
