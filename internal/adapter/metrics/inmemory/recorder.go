package inmemory

import (
	"strconv"
	"sync"

	"mealmax/internal/app/ports"
)

type Snapshot struct {
	BattleTotal   uint64            `json:"battle_total"`
	BattleSuccess uint64            `json:"battle_success"`
	BattleFailure uint64            `json:"battle_failure"`
	WinsByMeal    map[string]uint64 `json:"wins_by_meal"`
	LossesByMeal  map[string]uint64 `json:"losses_by_meal"`
}

type Recorder struct {
	mu      sync.Mutex
	success uint64
	failure uint64
	wins    map[int64]uint64
	losses  map[int64]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		wins:   map[int64]uint64{},
		losses: map[int64]uint64{},
	}
}

func (r *Recorder) RecordBattle(winnerID, loserID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
	r.wins[winnerID]++
	r.losses[loserID]++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		BattleSuccess: r.success,
		BattleFailure: r.failure,
		BattleTotal:   r.success + r.failure,
		WinsByMeal:    make(map[string]uint64, len(r.wins)),
		LossesByMeal:  make(map[string]uint64, len(r.losses)),
	}
	for id, n := range r.wins {
		out.WinsByMeal[strconv.FormatInt(id, 10)] = n
	}
	for id, n := range r.losses {
		out.LossesByMeal[strconv.FormatInt(id, 10)] = n
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}

var _ ports.BattleMetrics = (*Recorder)(nil)
