package scoring

import (
	"sort"

	"github.com/investorcenter/icscore/internal/contracts"
)

// Overall folds the factor scores into the composite. Unavailable
// factors drop out and their weight is redistributed over the factors
// that did score; an entity with no scorable factor at all cannot be
// scored. The result lives on a 1-100 scale so a published score of
// zero can never exist.
func Overall(factorScores []contracts.FactorScore, weights contracts.ScoreWeights) contracts.Metric {
	var acc, used float64
	for _, fs := range factorScores {
		w := weights[fs.Factor]
		if !fs.Score.Valid || w == 0 {
			continue
		}
		acc += fs.Score.Value * w
		used += w
	}
	if used == 0 {
		return contracts.Unavailable("no scorable factors")
	}
	score := acc / used
	if score < 1 {
		score = 1
	} else if score > 100 {
		score = 100
	}
	return contracts.MetricOf(score)
}

// assignSectorRanks fills rank and group size within each sector,
// rank 1 being the sector's best score on the date. Ties share the
// earlier rank deterministically by entity ID.
func assignSectorRanks(records []*contracts.ScoreRecord, sectors map[string]string) {
	bySector := make(map[string][]*contracts.ScoreRecord)
	for _, r := range records {
		s := sectors[r.EntityID]
		bySector[s] = append(bySector[s], r)
	}
	for _, group := range bySector {
		sort.Slice(group, func(i, j int) bool {
			if group[i].Score != group[j].Score {
				return group[i].Score > group[j].Score
			}
			return group[i].EntityID < group[j].EntityID
		})
		for i, r := range group {
			r.SectorRank = i + 1
			r.SectorSize = len(group)
		}
	}
}
