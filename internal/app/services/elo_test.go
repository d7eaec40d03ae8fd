package services

import (
	"reflect"
	"testing"
)

func TestRankEntriesSharesTies(t *testing.T) {
	sorted, ranks := RankEntries([]EloEntry{
		{Key: 1, Score: 50, Cumtime: 300},
		{Key: 2, Score: 100, Cumtime: 200},
		{Key: 3, Score: 100, Cumtime: 200},
		{Key: 4, Score: 100, Cumtime: 100},
	})
	keys := make([]int64, len(sorted))
	for i, e := range sorted {
		keys[i] = e.Key
	}
	if !reflect.DeepEqual(keys, []int64{4, 2, 3, 1}) {
		t.Errorf("order = %v", keys)
	}
	if !reflect.DeepEqual(ranks, []int{1, 2, 2, 4}) {
		t.Errorf("ranks = %v", ranks)
	}
}

func TestComputeElo(t *testing.T) {
	t.Run("single contestant keeps rating", func(t *testing.T) {
		got := ComputeElo([]EloEntry{{Key: 1, Score: 10, Rating: 1500}})
		if got[0].Rating != 1500 || got[0].Rank != 1 {
			t.Errorf("got %+v", got[0])
		}
	})

	t.Run("winner gains and loser drops", func(t *testing.T) {
		got := ComputeElo([]EloEntry{
			{Key: 1, Score: 10, Rating: 1500},
			{Key: 2, Score: 20, Rating: 1500},
		})
		if got[0].Key != 2 || got[0].Rating <= 1500 || got[1].Rating >= 1500 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("tied contestants move together", func(t *testing.T) {
		got := ComputeElo([]EloEntry{
			{Key: 1, Score: 10, Cumtime: 5, Rating: 1400},
			{Key: 2, Score: 10, Cumtime: 5, Rating: 1400},
			{Key: 3, Score: 0, Rating: 1400},
		})
		if got[0].Rank != 1 || got[1].Rank != 1 || got[2].Rank != 3 {
			t.Fatalf("ranks = %d %d %d", got[0].Rank, got[1].Rank, got[2].Rank)
		}
		if got[0].Rating != got[1].Rating || got[0].Performance != got[1].Performance {
			t.Errorf("tied results differ: %+v %+v", got[0], got[1])
		}
	})

	t.Run("upset moves the favourite more", func(t *testing.T) {
		got := ComputeElo([]EloEntry{
			{Key: 1, Score: 0, Rating: 2000},
			{Key: 2, Score: 10, Rating: 1200},
		})
		var strong, weak EloResult
		for _, r := range got {
			if r.Key == 1 {
				strong = r
			} else {
				weak = r
			}
		}
		if strong.Rating >= 2000 || weak.Rating <= 1200 {
			t.Errorf("strong %+v weak %+v", strong, weak)
		}
	})
}
