package entity

// Balance — счёт пользователя. Запись может отсутствовать:
// для неизвестного пользователя баланс считается нулевым.
type Balance struct {
	UserID int64   `json:"user_id"`
	Amount float64 `json:"amount"`
}
