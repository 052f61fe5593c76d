package view

import (
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// Префиксы callback-данных инлайн-кнопок.
const (
	CallbackLangPrefix = "lang:"
	CallbackMenuPrefix = "menu:"
	CallbackNumPrefix  = "num:"
)

// Callback-данные кнопок главного меню и клавиатуры цены.
const (
	CallbackMenuNew     = CallbackMenuPrefix + "new"
	CallbackMenuJoin    = CallbackMenuPrefix + "join"
	CallbackMenuBalance = CallbackMenuPrefix + "balance"

	CallbackNumDot = CallbackNumPrefix + "dot"
	CallbackNumOK  = CallbackNumPrefix + "ok"
)

//nolint:gochecknoglobals
var langTitles = map[string]string{
	"ru": "🇷🇺 Русский",
	"en": "🇬🇧 English",
}

// LanguageKeyboard строит клавиатуру выбора языка, по кнопке на каждый
// загруженный каталог.
func LanguageKeyboard(langs []string) *telego.InlineKeyboardMarkup {
	var rows [][]telego.InlineKeyboardButton

	for _, lang := range langs {
		title, ok := langTitles[lang]
		if !ok {
			title = strings.ToUpper(lang)
		}

		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(title).WithCallbackData(CallbackLangPrefix+lang),
		))
	}

	return tu.InlineKeyboard(rows...)
}

// MenuKeyboard строит главное меню. Подписи приходят из каталога локализации,
// чтобы меню следовало языку пользователя.
func MenuKeyboard(createLabel, joinLabel, balanceLabel string) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(createLabel).WithCallbackData(CallbackMenuNew),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(joinLabel).WithCallbackData(CallbackMenuJoin),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(balanceLabel).WithCallbackData(CallbackMenuBalance),
		),
	)
}

// PriceKeypad строит цифровую клавиатуру ввода цены: три ряда цифр 1-9,
// нижний ряд с точкой, нулем и подтверждением.
func PriceKeypad(okLabel string) *telego.InlineKeyboardMarkup {
	digit := func(d string) telego.InlineKeyboardButton {
		return tu.InlineKeyboardButton(d).WithCallbackData(CallbackNumPrefix + d)
	}

	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(digit("1"), digit("2"), digit("3")),
		tu.InlineKeyboardRow(digit("4"), digit("5"), digit("6")),
		tu.InlineKeyboardRow(digit("7"), digit("8"), digit("9")),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(".").WithCallbackData(CallbackNumDot),
			digit("0"),
			tu.InlineKeyboardButton(okLabel).WithCallbackData(CallbackNumOK),
		),
	)
}
