// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import "time"

// Deal Сделка
type Deal struct {
	ID          string    `json:"id"`
	SellerID    int64     `json:"sellerId"`
	BuyerID     int64     `json:"buyerId,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TradeLog Запись архива завершенных сделок
type TradeLog struct {
	Deal        Deal      `json:"deal"`
	ActorID     int64     `json:"actorId"`
	CompletedAt time.Time `json:"completedAt"`
}

// Balance Баланс пользователя
type Balance struct {
	UserID int64   `json:"userId"`
	Amount float64 `json:"amount"`
}

// CompleteDealRequest Запрос на завершение сделки
type CompleteDealRequest struct {
	// ActorID От чьего имени завершается сделка
	ActorID int64 `json:"actorId" validate:"required"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
