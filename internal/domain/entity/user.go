package entity

import "time"

// Stage — шаг диалога с пользователем. Закрытый набор значений:
// вне перечисленных констант стадий не существует, каждый потребитель
// обязан разбирать их исчерпывающим switch.
type Stage string

const (
	StageLangSelect  Stage = "lang_select"  // Ждём выбор языка
	StageMenu        Stage = "menu"         // Главное меню, ввод не ожидается
	StageCreateTitle Stage = "create_title" // Ждём название лота
	StageCreateDesc  Stage = "create_desc"  // Ждём описание лота
	StageCreatePrice Stage = "create_price" // Набор цены на клавиатуре
	StageJoinWaitID  Stage = "join_wait_id" // Ждём код сделки
)

// DealDraft — черновик создаваемой сделки. Живёт внутри сессии,
// чтобы буфер цены не разъезжался со стадией диалога.
type DealDraft struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	PriceBuffer string `json:"price_buffer,omitempty"`
}

// Empty сообщает, что в черновике ничего не накоплено.
func (d DealDraft) Empty() bool {
	return d == DealDraft{}
}

// User — сессия пользователя бота: выбранный язык, текущая стадия диалога
// и черновик сделки. Создаётся при первом /start и живёт бессрочно.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username,omitempty"`
	Lang      string    `json:"lang,omitempty"`
	Stage     Stage     `json:"stage"`
	Draft     DealDraft `json:"draft,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
