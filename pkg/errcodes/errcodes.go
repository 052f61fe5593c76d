package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	// Коды сделок.
	DealNotFound         failure.ErrorCode = "DealNotFound"         // Код сделки никому не выдавался
	DealAlreadyTaken     failure.ErrorCode = "DealAlreadyTaken"     // Покупатель уже назначен
	DealAlreadyCompleted failure.ErrorCode = "DealAlreadyCompleted" // Повторное завершение
	SelfTrade            failure.ErrorCode = "SelfTrade"            // Продавец пытается купить у себя
	IDExhausted          failure.ErrorCode = "IDExhausted"          // Не удалось подобрать свободный код
	InvalidTitle         failure.ErrorCode = "InvalidTitle"
	InvalidDescription   failure.ErrorCode = "InvalidDescription"
	InvalidPrice         failure.ErrorCode = "InvalidPrice"
	InvalidDealID        failure.ErrorCode = "InvalidDealID" // Когда пришел мусор вместо кода

	// Коды диалоговых сессий.
	InvalidStage    failure.ErrorCode = "InvalidStage"    // Действие не разрешено на текущем шаге
	UnexpectedInput failure.ErrorCode = "UnexpectedInput" // Ввод вне ожидающего шага

	// Коды хранилища.
	StorageFailure failure.ErrorCode = "StorageFailure" // Документ коллекции не читается или не пишется
)
