package entity

import "time"

// TradeLog — неизменяемый снимок сделки в момент завершения.
// Пишется ровно один раз на сделку, ключ — код сделки.
type TradeLog struct {
	Deal        Deal      `json:"deal"`
	ActorID     int64     `json:"actor_id"` // Кто инициировал завершение
	CompletedAt time.Time `json:"completed_at"`
}
