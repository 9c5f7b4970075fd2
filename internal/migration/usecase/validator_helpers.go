package usecase

import (
	"fmt"
	"sort"
)

func countMismatchWarning(collection string, expected, actual int) string {
	return fmt.Sprintf("count mismatch in %s: expected %d, counted %d", collection, expected, actual)
}

func sumMismatchWarning(collection, field string, expected, actual float64) string {
	return fmt.Sprintf("sum mismatch in %s.%s: expected %.2f, got %.2f", collection, field, expected, actual)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
