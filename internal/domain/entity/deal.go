package entity

import "time"

// DealStatus — состояние сделки. Движется строго open -> done,
// назначение покупателя — промежуточное подсостояние open.
type DealStatus string

const (
	DealStatusOpen DealStatus = "open"
	DealStatusDone DealStatus = "done"
)

// Deal — выставленный на продажу лот. Код сделки уникален среди всех
// когда-либо созданных сделок, включая завершённые.
type Deal struct {
	ID          string     `json:"id"` // Код вида A0421: буква + четыре цифры
	SellerID    int64      `json:"seller_id"`
	BuyerID     int64      `json:"buyer_id,omitempty"` // 0 — покупатель ещё не назначен
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       string     `json:"price"` // Десятичная строка, строго положительная
	Status      DealStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Taken сообщает, что покупатель уже назначен.
func (d Deal) Taken() bool {
	return d.BuyerID != 0
}

// Completed сообщает, что сделка завершена и заархивирована.
func (d Deal) Completed() bool {
	return d.Status == DealStatusDone
}
