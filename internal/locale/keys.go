package locale

// Ключи шаблонов. Каждому ключу соответствует строка в locales/<lang>.yml.
const (
	KeyChooseLang      = "choose_lang"
	KeyMenu            = "menu"
	KeyStartRequired   = "start_required"
	KeyAskTitle        = "ask_title"
	KeyAskDesc         = "ask_desc"
	KeyAskPrice        = "ask_price"
	KeyPriceProgress   = "price_progress"
	KeyDealCreated     = "deal_created"
	KeyAskDealID       = "ask_deal_id"
	KeyDealJoined      = "deal_joined"
	KeyDealJoinedOwner = "deal_joined_owner"
	KeyDealNotFound    = "deal_not_found"
	KeyDealTaken       = "deal_taken"
	KeySelfTrade       = "self_trade"
	KeyAlreadyDone     = "already_completed"
	KeyDealCompleted   = "deal_completed"
	KeyTradeClosed     = "trade_closed"
	KeyTradeClosedOver = "trade_closed_oversight"
	KeyBalance         = "balance"
	KeyInvalidTitle    = "invalid_title"
	KeyInvalidDesc     = "invalid_desc"
	KeyInvalidPrice    = "invalid_price"
	KeyUnexpectedInput = "unexpected_input"
	KeyForbidden       = "forbidden"
	KeyDoneUsage       = "done_usage"
	KeyInternalError   = "internal_error"

	KeyButtonCreate  = "btn_create"
	KeyButtonJoin    = "btn_join"
	KeyButtonBalance = "btn_balance"
	KeyButtonOK      = "btn_ok"
)
