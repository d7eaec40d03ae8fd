package services

import (
	"math"
	"sort"
)

// EloEntry is one ranked contestant before a contest
type EloEntry struct {
	Key     int64
	Score   float64
	Cumtime int64
	Rating  int
}

// EloResult is the outcome of one contestant
type EloResult struct {
	Key         int64
	Rank        int
	Rating      int
	Performance int
}

const (
	eloScale    = 400.0
	perfLow     = -2000.0
	perfHigh    = 8000.0
	perfEpsilon = 0.01
)

// RankEntries orders entries by score descending then cumtime ascending and returns the
// shared competition rank (1, 1, 3) of each entry in that order.
func RankEntries(entries []EloEntry) ([]EloEntry, []int) {
	sorted := append([]EloEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		if sorted[i].Cumtime != sorted[j].Cumtime {
			return sorted[i].Cumtime < sorted[j].Cumtime
		}
		return sorted[i].Key < sorted[j].Key
	})
	ranks := make([]int, len(sorted))
	for i := range sorted {
		if i > 0 && sorted[i].Score == sorted[i-1].Score && sorted[i].Cumtime == sorted[i-1].Cumtime {
			ranks[i] = ranks[i-1]
		} else {
			ranks[i] = i + 1
		}
	}
	return sorted, ranks
}

// expectedRank is the rank a contestant rated r is expected to reach against others
func expectedRank(r float64, others []float64) float64 {
	e := 1.0
	for _, o := range others {
		e += 1 / (1 + math.Pow(10, (r-o)/eloScale))
	}
	return e
}

// ComputeElo rates one contest. The performance of a contestant is the rating whose
// expected rank equals the geometric mean of its expected and actual rank; the new
// rating moves half way towards it.
func ComputeElo(entries []EloEntry) []EloResult {
	sorted, ranks := RankEntries(entries)
	results := make([]EloResult, len(sorted))
	for i, e := range sorted {
		results[i] = EloResult{Key: e.Key, Rank: ranks[i], Rating: e.Rating, Performance: e.Rating}
	}
	if len(sorted) < 2 {
		return results
	}

	for i, e := range sorted {
		others := make([]float64, 0, len(sorted)-1)
		for j, o := range sorted {
			if j != i {
				others = append(others, float64(o.Rating))
			}
		}
		target := math.Sqrt(expectedRank(float64(e.Rating), others) * float64(ranks[i]))

		lo, hi := perfLow, perfHigh
		for hi-lo > perfEpsilon {
			mid := (lo + hi) / 2
			if expectedRank(mid, others) < target {
				hi = mid
			} else {
				lo = mid
			}
		}
		perf := (lo + hi) / 2
		results[i].Performance = int(math.Round(perf))
		results[i].Rating = int(math.Round(float64(e.Rating) + (perf-float64(e.Rating))/2))
	}
	return results
}
