package ports

type BattleMetrics interface {
	RecordBattle(winnerID, loserID int64)
	RecordFailure()
}
