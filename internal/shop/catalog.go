package shop

import (
	"context"
	"strings"
	"time"

	"game_store/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const searchLimit = 20

// GameInput is the admin form for creating or editing a game.
type GameInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	ReleaseDate time.Time
	CategoryIDs []int
	ImageURL    string
}

// GameSales is a game with the number of copies sold.
type GameSales struct {
	Game domain.Game
	Sold int64
}

// ListGames returns the catalog newest release first. A positive
// categoryID restricts it to that category.
func (s *Service) ListGames(ctx context.Context, categoryID int) ([]domain.Game, error) {
	query := s.conn(ctx).Preload("Categories")
	if categoryID > 0 {
		query = query.
			Joins("JOIN game_category_link ON game_category_link.game_id = game.id").
			Where("game_category_link.category_id = ?", categoryID)
	}
	var games []domain.Game
	err := query.Order("game.release_date DESC, game.title").Find(&games).Error
	return games, err
}

// GetGame loads one game with its categories.
func (s *Service) GetGame(ctx context.Context, id uuid.UUID) (*domain.Game, error) {
	var game domain.Game
	if err := s.conn(ctx).Preload("Categories").First(&game, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

// SearchGames matches q against titles and descriptions, case-insensitively.
func (s *Service) SearchGames(ctx context.Context, q string) ([]domain.Game, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptySearch
	}
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	var games []domain.Game
	err := s.conn(ctx).
		Preload("Categories").
		Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", pattern, pattern).
		Order("title").
		Limit(searchLimit).
		Find(&games).Error
	return games, err
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

// LatestGame returns the most recently released game.
func (s *Service) LatestGame(ctx context.Context) (*domain.Game, error) {
	var game domain.Game
	if err := s.conn(ctx).Preload("Categories").Order("release_date DESC").First(&game).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

// TopSellers ranks games by copies sold, best first.
func (s *Service) TopSellers(ctx context.Context, limit int) ([]GameSales, error) {
	if limit < 1 || limit > maxPageSize {
		limit = 10
	}
	var rows []struct {
		GameID uuid.UUID
		Sold   int64
	}
	err := s.conn(ctx).
		Model(&domain.PurchaseItem{}).
		Select("game_id, COUNT(*) AS sold").
		Group("game_id").
		Order("sold DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []GameSales{}, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.GameID
	}
	var games []domain.Game
	if err := s.conn(ctx).Preload("Categories").Where("id IN ?", ids).Find(&games).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.Game, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}
	out := make([]GameSales, 0, len(rows))
	for _, r := range rows {
		if g, ok := byID[r.GameID]; ok {
			out = append(out, GameSales{Game: g, Sold: r.Sold})
		}
	}
	return out, nil
}

// ListCategories returns every category by id.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := s.conn(ctx).Order("id").Find(&categories).Error
	return categories, err
}

func (in GameInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrGameTitleRequired
	}
	if in.Price.LessThan(minGamePrice) {
		return ErrGamePriceTooLow
	}
	return nil
}

func loadCategories(tx *gorm.DB, ids []int) ([]domain.Category, error) {
	seen := make(map[int]struct{}, len(ids))
	unique := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return []domain.Category{}, nil
	}
	var categories []domain.Category
	if err := tx.Where("id IN ?", unique).Find(&categories).Error; err != nil {
		return nil, err
	}
	if len(categories) != len(unique) {
		return nil, ErrUnknownCategory
	}
	return categories, nil
}

// CreateGame adds a game to the catalog.
func (s *Service) CreateGame(ctx context.Context, adminID uuid.UUID, in GameInput) (*domain.Game, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var game domain.Game
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		categories, err := loadCategories(tx, in.CategoryIDs)
		if err != nil {
			return err
		}
		game = domain.Game{
			Title:       strings.TrimSpace(in.Title),
			Description: in.Description,
			Price:       money(in.Price),
			ReleaseDate: releaseDate(in.ReleaseDate, s.now()),
			ImageURL:    in.ImageURL,
			Categories:  categories,
		}
		if err := tx.Create(&game).Error; err != nil {
			return err
		}
		return logActivity(tx, adminID, "CREATE_GAME", game.ID, "game", game.Title)
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"admin_id": adminID, "game_id": game.ID, "title": game.Title}).Info("Game created")
	return &game, nil
}

// UpdateGame replaces a game's fields and categories. It returns the image
// URL that was replaced, or "" when the image did not change.
func (s *Service) UpdateGame(ctx context.Context, adminID, id uuid.UUID, in GameInput) (*domain.Game, string, error) {
	if err := in.validate(); err != nil {
		return nil, "", err
	}
	var game domain.Game
	var replaced string
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&game, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return ErrGameNotFound
			}
			return err
		}
		categories, err := loadCategories(tx, in.CategoryIDs)
		if err != nil {
			return err
		}
		if in.ImageURL != "" && in.ImageURL != game.ImageURL {
			replaced = game.ImageURL
		}
		updates := map[string]any{
			"title":        strings.TrimSpace(in.Title),
			"description":  in.Description,
			"price":        money(in.Price),
			"release_date": releaseDate(in.ReleaseDate, game.ReleaseDate),
		}
		if in.ImageURL != "" {
			updates["image_url"] = in.ImageURL
		}
		if err := tx.Model(&game).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&game).Association("Categories").Replace(categories); err != nil {
			return err
		}
		if err := tx.Preload("Categories").First(&game, "id = ?", id).Error; err != nil {
			return err
		}
		return logActivity(tx, adminID, "UPDATE_GAME", game.ID, "game", game.Title)
	})
	if err != nil {
		return nil, "", err
	}
	logrus.WithFields(logrus.Fields{"admin_id": adminID, "game_id": game.ID}).Info("Game updated")
	return &game, replaced, nil
}

// DeleteGame removes a game nobody has bought, together with its category
// links and pending cart rows. The deleted game is returned so the caller
// can remove its image.
func (s *Service) DeleteGame(ctx context.Context, adminID, id uuid.UUID) (*domain.Game, error) {
	var game domain.Game
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&game, "id = ?", id).Error; err != nil {
			if isNotFound(err) {
				return ErrGameNotFound
			}
			return err
		}
		owned, err := exists(tx, &domain.UserGame{}, "game_id = ?", id)
		if err != nil {
			return err
		}
		sold, err := exists(tx, &domain.PurchaseItem{}, "game_id = ?", id)
		if err != nil {
			return err
		}
		if owned || sold {
			return ErrGameHasOwners
		}
		if err := tx.Where("game_id = ?", id).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&game).Association("Categories").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&game).Error; err != nil {
			return err
		}
		return logActivity(tx, adminID, "DELETE_GAME", game.ID, "game", game.Title)
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"admin_id": adminID, "game_id": id}).Info("Game deleted")
	return &game, nil
}

func releaseDate(t, fallback time.Time) time.Time {
	if t.IsZero() {
		return fallback
	}
	return t.UTC()
}
