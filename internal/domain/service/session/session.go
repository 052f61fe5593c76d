package session

import (
	"context"
	"strings"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	dealservice "tg_garant/internal/domain/service/deal"
	"tg_garant/pkg/contextx"
	"tg_garant/pkg/errcodes"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const decimalSeparator = "."

type UserRepository interface {
	Get(ctx context.Context, id int64) (entity.User, bool)
	Save(ctx context.Context, user entity.User) (entity.User, error)
	Update(ctx context.Context, id int64, fn func(*entity.User) error) (entity.User, error)
}

type DealEngine interface {
	Create(ctx context.Context, sellerID int64, title, description, price string) (entity.Deal, error)
	Join(ctx context.Context, dealID string, buyerID int64) (entity.Deal, error)
}

// TextResult — итог обработки свободного текста: сессия после перехода и,
// если текст был кодом сделки, снимок сделки после входа.
type TextResult struct {
	User entity.User
	Deal *entity.Deal
}

// SessionService ведёт диалоговые сессии: хранит стадию, черновик сделки и
// буфер цены, пропуская ввод только на той стадии, где он ожидается.
type SessionService struct {
	users UserRepository
	deals DealEngine
}

func NewSessionService(users UserRepository, deals DealEngine) *SessionService {
	return &SessionService{
		users: users,
		deals: deals,
	}
}

// Start создаёт или сбрасывает сессию: язык не выбран, стадия lang_select,
// черновик пуст. Повторный вызов даёт тот же результат.
func (s *SessionService) Start(ctx context.Context, userID int64, username string) (entity.User, error) {
	user, err := s.users.Save(ctx, entity.User{
		ID:       userID,
		Username: username,
		Stage:    entity.StageLangSelect,
	})
	if err != nil {
		return entity.User{}, err
	}

	logger(ctx).Info("session started", "user_id", userID)

	return user, nil
}

// Get возвращает сессию пользователя и признак её существования.
func (s *SessionService) Get(ctx context.Context, userID int64) (entity.User, bool) {
	return s.users.Get(ctx, userID)
}

// SelectLanguage фиксирует язык и выводит пользователя в меню. Разрешён
// с выбора языка и повторно из меню, с остальных стадий отклоняется.
func (s *SessionService) SelectLanguage(ctx context.Context, userID int64, lang string) (entity.User, error) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return entity.User{}, domain.NewError(errcodes.ValidationError, "language code must not be empty")
	}

	return s.users.Update(ctx, userID, func(u *entity.User) error {
		if u.Stage != entity.StageLangSelect && u.Stage != entity.StageMenu {
			return domain.NewError(errcodes.InvalidStage, "language can be chosen only from the menu")
		}

		u.Lang = lang
		u.Stage = entity.StageMenu
		return nil
	})
}

// BeginDealCreation переводит пользователя из меню к вводу названия лота.
func (s *SessionService) BeginDealCreation(ctx context.Context, userID int64) (entity.User, error) {
	return s.users.Update(ctx, userID, func(u *entity.User) error {
		if u.Stage != entity.StageMenu {
			return domain.NewError(errcodes.InvalidStage, "deal creation starts from the menu")
		}

		u.Draft = entity.DealDraft{}
		u.Stage = entity.StageCreateTitle
		return nil
	})
}

// BeginJoin переводит пользователя из меню к вводу кода сделки.
func (s *SessionService) BeginJoin(ctx context.Context, userID int64) (entity.User, error) {
	return s.users.Update(ctx, userID, func(u *entity.User) error {
		if u.Stage != entity.StageMenu {
			return domain.NewError(errcodes.InvalidStage, "joining starts from the menu")
		}

		u.Stage = entity.StageJoinWaitID
		return nil
	})
}

// SubmitText разбирает свободный текст по текущей стадии: название лота,
// описание или код сделки. На прочих стадиях текст не ожидается и сессию
// не меняет.
func (s *SessionService) SubmitText(ctx context.Context, userID int64, text string) (TextResult, error) {
	user, found := s.users.Get(ctx, userID)
	if !found {
		return TextResult{}, domain.NewError(errcodes.NotFound, "session not found")
	}

	switch user.Stage {
	case entity.StageCreateTitle:
		return s.captureTitle(ctx, userID, text)
	case entity.StageCreateDesc:
		return s.captureDescription(ctx, userID, text)
	case entity.StageJoinWaitID:
		return s.joinByText(ctx, user, text)
	case entity.StageLangSelect, entity.StageMenu, entity.StageCreatePrice:
		return TextResult{}, domain.NewError(errcodes.UnexpectedInput, "text is not expected at this stage")
	default:
		return TextResult{}, domain.NewError(errcodes.UnexpectedInput, "unknown session stage")
	}
}

func (s *SessionService) captureTitle(ctx context.Context, userID int64, text string) (TextResult, error) {
	title := strings.TrimSpace(text)
	if title == "" {
		return TextResult{}, domain.NewError(errcodes.InvalidTitle, "title must not be empty")
	}

	user, err := s.users.Update(ctx, userID, func(u *entity.User) error {
		if u.Stage != entity.StageCreateTitle {
			return domain.NewError(errcodes.InvalidStage, "title is no longer expected")
		}

		u.Draft.Title = title
		u.Stage = entity.StageCreateDesc
		return nil
	})
	if err != nil {
		return TextResult{}, err
	}

	return TextResult{User: user}, nil
}

func (s *SessionService) captureDescription(ctx context.Context, userID int64, text string) (TextResult, error) {
	description := strings.TrimSpace(text)
	if description == "" {
		return TextResult{}, domain.NewError(errcodes.InvalidDescription, "description must not be empty")
	}

	user, err := s.users.Update(ctx, userID, func(u *entity.User) error {
		if u.Stage != entity.StageCreateDesc {
			return domain.NewError(errcodes.InvalidStage, "description is no longer expected")
		}

		u.Draft.Description = description
		u.Stage = entity.StageCreatePrice
		return nil
	})
	if err != nil {
		return TextResult{}, err
	}

	return TextResult{User: user}, nil
}

// joinByText пробует войти в сделку по коду. Любая неудача оставляет
// пользователя на той же стадии, чтобы он мог прислать другой код.
func (s *SessionService) joinByText(ctx context.Context, user entity.User, text string) (TextResult, error) {
	deal, err := s.deals.Join(ctx, text, user.ID)
	if err != nil {
		return TextResult{}, err
	}

	updated, err := s.users.Update(ctx, user.ID, func(u *entity.User) error {
		u.Stage = entity.StageMenu
		return nil
	})
	if err != nil {
		return TextResult{}, err
	}

	return TextResult{User: updated, Deal: &deal}, nil
}

// AppendDigit добавляет цифру в буфер цены.
func (s *SessionService) AppendDigit(ctx context.Context, userID int64, digit string) (entity.User, error) {
	if len(digit) != 1 || digit[0] < '0' || digit[0] > '9' {
		return entity.User{}, domain.NewError(errcodes.ValidationError, "expected a single digit")
	}

	return s.users.Update(ctx, userID, func(u *entity.User) error {
		if u.Stage != entity.StageCreatePrice {
			return domain.NewError(errcodes.InvalidStage, "price keypad is not active")
		}

		u.Draft.PriceBuffer += digit
		return nil
	})
}

// AppendDecimalSeparator добавляет десятичный разделитель. Повторное
// нажатие молча игнорируется, буфер не меняется.
func (s *SessionService) AppendDecimalSeparator(ctx context.Context, userID int64) (entity.User, error) {
	return s.users.Update(ctx, userID, func(u *entity.User) error {
		if u.Stage != entity.StageCreatePrice {
			return domain.NewError(errcodes.InvalidStage, "price keypad is not active")
		}

		if strings.Contains(u.Draft.PriceBuffer, decimalSeparator) {
			return nil
		}

		u.Draft.PriceBuffer += decimalSeparator
		return nil
	})
}

// CommitPrice разбирает буфер как цену и создаёт сделку из черновика.
// Негодный буфер остаётся нетронутым, чтобы его можно было дополнить.
// Черновик забирается из сессии атомарно, поэтому повторное нажатие OK
// не породит вторую сделку.
func (s *SessionService) CommitPrice(ctx context.Context, userID int64) (entity.Deal, error) {
	var draft entity.DealDraft

	if _, err := s.users.Update(ctx, userID, func(u *entity.User) error {
		if u.Stage != entity.StageCreatePrice {
			return domain.NewError(errcodes.InvalidStage, "price keypad is not active")
		}

		if u.Draft.PriceBuffer == "" {
			return domain.NewError(errcodes.InvalidPrice, "price buffer is empty")
		}

		if err := dealservice.ValidatePrice(u.Draft.PriceBuffer); err != nil {
			return err
		}

		draft = u.Draft
		u.Draft = entity.DealDraft{}
		u.Stage = entity.StageMenu
		return nil
	}); err != nil {
		return entity.Deal{}, err
	}

	deal, err := s.deals.Create(ctx, userID, draft.Title, draft.Description, draft.PriceBuffer)
	if err != nil {
		// Возвращаем черновик на место, чтобы ввод не пропал.
		if _, rbErr := s.users.Update(ctx, userID, func(u *entity.User) error {
			u.Draft = draft
			u.Stage = entity.StageCreatePrice
			return nil
		}); rbErr != nil {
			logger(ctx).Error("failed to restore draft after create error",
				"user_id", userID,
				"error", rbErr,
			)
		}
		return entity.Deal{}, err
	}

	return deal, nil
}
