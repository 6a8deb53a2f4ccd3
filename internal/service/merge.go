package service

import "github.com/BrainPreserve/new-brain-healthy-meals/internal/textnorm"

// mergeAliases appends loserAliases to winnerAliases, excluding anything that
// normalizes to winnerName. Duplicates are detected by normalized form and
// the first spelling seen is kept.
func mergeAliases(winnerAliases, loserAliases []string, winnerName string) []string {
	seen := make(map[string]struct{}, len(winnerAliases)+len(loserAliases))
	result := make([]string, 0, len(winnerAliases)+len(loserAliases))

	winnerKey := textnorm.Normalize(winnerName)
	add := func(s string) {
		key := textnorm.Normalize(s)
		if key == "" || key == winnerKey {
			return
		}
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			result = append(result, s)
		}
	}

	for _, a := range winnerAliases {
		add(a)
	}
	for _, a := range loserAliases {
		add(a)
	}

	return result
}
