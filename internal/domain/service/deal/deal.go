package service

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tg_garant/internal/domain"
	"tg_garant/internal/domain/entity"
	"tg_garant/pkg/contextx"
	"tg_garant/pkg/errcodes"
	"tg_garant/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const maxIDAttempts = 10

// Код сделки: одна заглавная латинская буква и четыре цифры.
var dealIDPattern = regexp.MustCompile(`^[A-Z][0-9]{4}$`)

type DealRepository interface {
	Create(ctx context.Context, deal entity.Deal) (entity.Deal, error)
	GetByID(ctx context.Context, id string) (entity.Deal, error)
	Join(ctx context.Context, dealID string, buyerID int64) (entity.Deal, error)
	Complete(ctx context.Context, dealID string, actorID int64) (entity.TradeLog, error)
	List(ctx context.Context, status entity.DealStatus) ([]entity.Deal, error)
}

type DealService struct {
	repo        DealRepository
	oversightID int64
	completed   chan<- entity.TradeLog
	randInt     func(n int) int
}

func NewDealService(repo DealRepository) *DealService {
	return &DealService{
		repo:    repo,
		randInt: rand.IntN,
	}
}

// WithOversight задаёт идентификатор надзора: ему разрешено завершать любую
// сделку, и он же получает уведомление о каждом завершении.
func (s *DealService) WithOversight(id int64) *DealService {
	s.oversightID = id
	return s
}

// WithNotifications подключает канал, в который уходят снимки завершённых
// сделок для рассылки.
func (s *DealService) WithNotifications(ch chan<- entity.TradeLog) *DealService {
	s.completed = ch
	return s
}

// WithRandInt подменяет источник случайности генератора кодов.
func (s *DealService) WithRandInt(fn func(n int) int) *DealService {
	s.randInt = fn
	return s
}

// NormalizeID приводит пользовательский ввод к канонической форме кода.
func NormalizeID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidateID проверяет, что строка выглядит как код сделки.
func ValidateID(id string) error {
	if !dealIDPattern.MatchString(id) {
		return domain.NewError(errcodes.InvalidDealID, "malformed deal id")
	}
	return nil
}

// ValidatePrice проверяет, что строка — строго положительное конечное число.
func ValidatePrice(price string) error {
	value, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return domain.NewError(errcodes.InvalidPrice, "price is not a number")
	}
	if value <= 0 || math.IsInf(value, 0) || math.IsNaN(value) {
		return domain.NewError(errcodes.InvalidPrice, "price must be strictly positive")
	}
	return nil
}

// Create проверяет поля, подбирает свободный код и сохраняет сделку.
// Валидация идёт до генерации кода, чтобы не тратить попытки на заведомо
// негодный ввод.
func (s *DealService) Create(ctx context.Context, sellerID int64, title, description, price string) (entity.Deal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return entity.Deal{}, domain.NewError(errcodes.InvalidTitle, "title must not be empty")
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return entity.Deal{}, domain.NewError(errcodes.InvalidDescription, "description must not be empty")
	}

	price = strings.TrimSpace(price)
	if err := ValidatePrice(price); err != nil {
		return entity.Deal{}, err
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		deal := entity.Deal{
			ID:          s.generateID(),
			SellerID:    sellerID,
			Title:       title,
			Description: description,
			Price:       price,
			Status:      entity.DealStatusOpen,
			CreatedAt:   time.Now(),
		}

		created, err := s.repo.Create(ctx, deal)
		if err != nil {
			// Коллизия кода: пробуем следующий.
			if domain.IsCode(err, errcodes.DealAlreadyTaken) {
				logger(ctx).Debug("deal id collision", "deal_id", deal.ID, "attempt", attempt+1)
				continue
			}
			return entity.Deal{}, fmt.Errorf("create deal: %w", err)
		}

		logger(ctx).Info("deal created",
			"deal_id", created.ID,
			"seller_id", sellerID,
			"price", created.Price,
		)
		metrics.DealsCreated.Inc()

		return created, nil
	}

	return entity.Deal{}, domain.NewError(errcodes.IDExhausted, "no free deal id after all attempts")
}

// Get возвращает сделку по коду в канонической форме.
func (s *DealService) Get(ctx context.Context, dealID string) (entity.Deal, error) {
	id := NormalizeID(dealID)
	if err := ValidateID(id); err != nil {
		return entity.Deal{}, err
	}

	return s.repo.GetByID(ctx, id)
}

// List возвращает сделки, опционально отфильтрованные по статусу.
func (s *DealService) List(ctx context.Context, status entity.DealStatus) ([]entity.Deal, error) {
	return s.repo.List(ctx, status)
}

// Join закрепляет покупателя за сделкой по коду.
func (s *DealService) Join(ctx context.Context, dealID string, buyerID int64) (entity.Deal, error) {
	id := NormalizeID(dealID)
	if err := ValidateID(id); err != nil {
		return entity.Deal{}, err
	}

	deal, err := s.repo.Join(ctx, id, buyerID)
	if err != nil {
		return entity.Deal{}, err
	}

	logger(ctx).Info("deal joined", "deal_id", deal.ID, "buyer_id", buyerID)
	metrics.DealsJoined.Inc()

	return deal, nil
}

// Complete завершает сделку и отдаёт снимок журнала в рассылку. Завершать
// сделку могут только продавец, назначенный покупатель и надзор.
func (s *DealService) Complete(ctx context.Context, dealID string, actorID int64) (entity.TradeLog, error) {
	id := NormalizeID(dealID)
	if err := ValidateID(id); err != nil {
		return entity.TradeLog{}, err
	}

	deal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return entity.TradeLog{}, err
	}

	if !s.mayComplete(deal, actorID) {
		return entity.TradeLog{}, domain.NewError(errcodes.Forbidden, "actor is not allowed to complete this deal")
	}

	logEntry, err := s.repo.Complete(ctx, id, actorID)
	if err != nil {
		return entity.TradeLog{}, err
	}

	logger(ctx).Info("deal completed",
		"deal_id", logEntry.Deal.ID,
		"actor_id", actorID,
	)
	metrics.DealsCompleted.Inc()

	s.notify(ctx, logEntry)

	return logEntry, nil
}

func (s *DealService) mayComplete(deal entity.Deal, actorID int64) bool {
	switch {
	case actorID == deal.SellerID:
		return true
	case deal.Taken() && actorID == deal.BuyerID:
		return true
	case s.oversightID != 0 && actorID == s.oversightID:
		return true
	}
	return false
}

// notify отправляет снимок в канал рассылки. Переполненная очередь не
// блокирует завершение: уведомление теряется, сделка — нет.
func (s *DealService) notify(ctx context.Context, logEntry entity.TradeLog) {
	if s.completed == nil {
		return
	}

	select {
	case s.completed <- logEntry:
	default:
		logger(ctx).Warn("notification queue is full, dropping", "deal_id", logEntry.Deal.ID)
	}
}

func (s *DealService) generateID() string {
	letter := rune('A' + s.randInt(26))
	return fmt.Sprintf("%c%04d", letter, s.randInt(10000))
}
