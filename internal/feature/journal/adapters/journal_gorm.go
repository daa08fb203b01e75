// Package adapters はjournalフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	analysis "calorie_backend/internal/feature/analysis/domain/entity"
	"calorie_backend/internal/feature/journal/domain"
	"calorie_backend/internal/feature/journal/domain/entity"
	"calorie_backend/internal/feature/journal/usecase"
)

// journalGorm はJournalRepositoryインターフェースのgorm実装です（PostgreSQL / SQLite）。
type journalGorm struct {
	db *gorm.DB
}

var _ usecase.JournalRepository = (*journalGorm)(nil)

// NewJournalRepository は指定されたDB接続でjournalGormリポジトリの新しいインスタンスを生成します。
func NewJournalRepository(db *gorm.DB) *journalGorm {
	return &journalGorm{db: db}
}

// EntryModel は journal_entries テーブルの行です。
type EntryModel struct {
	ID              string            `gorm:"primaryKey;size:36"`
	SessionID       string            `gorm:"size:36;index"`
	OverallAccuracy float64           `gorm:"not null;default:0"`
	TotalCalories   float64           `gorm:"not null;default:0"`
	CreatedAt       time.Time         `gorm:"not null;index"`
	Ingredients     []IngredientModel `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
}

func (EntryModel) TableName() string {
	return "journal_entries"
}

// IngredientModel は journal_ingredients テーブルの行です。Positionで元の順序を保持します。
type IngredientModel struct {
	ID                 uint    `gorm:"primaryKey"`
	EntryID            string  `gorm:"size:36;not null;index"`
	Position           int     `gorm:"not null"`
	Name               string  `gorm:"size:255;not null"`
	Grams              float64 `gorm:"not null;default:0"`
	Calories           float64 `gorm:"not null;default:0"`
	AccuracyPercentage float64 `gorm:"not null;default:0"`
}

func (IngredientModel) TableName() string {
	return "journal_ingredients"
}

// Models はマイグレーション対象のモデルです。
func Models() []any {
	return []any{&EntryModel{}, &IngredientModel{}}
}

func toModel(e *entity.Entry) EntryModel {
	ingredients := make([]IngredientModel, 0, len(e.Ingredients))
	for i, in := range e.Ingredients {
		ingredients = append(ingredients, IngredientModel{
			EntryID:            e.ID,
			Position:           i,
			Name:               in.Name,
			Grams:              in.Grams,
			Calories:           in.Calories,
			AccuracyPercentage: in.AccuracyPercentage,
		})
	}
	return EntryModel{
		ID:              e.ID,
		SessionID:       e.SessionID,
		OverallAccuracy: e.OverallAccuracyPercentage,
		TotalCalories:   e.Result().TotalCalories(),
		CreatedAt:       e.CreatedAt,
		Ingredients:     ingredients,
	}
}

func toEntity(m EntryModel) entity.Entry {
	ingredients := make([]analysis.Ingredient, 0, len(m.Ingredients))
	for _, in := range m.Ingredients {
		ingredients = append(ingredients, analysis.Ingredient{
			Name:               in.Name,
			Grams:              in.Grams,
			Calories:           in.Calories,
			AccuracyPercentage: in.AccuracyPercentage,
		})
	}
	return entity.Entry{
		ID:                        m.ID,
		SessionID:                 m.SessionID,
		Ingredients:               ingredients,
		OverallAccuracyPercentage: m.OverallAccuracy,
		CreatedAt:                 m.CreatedAt,
	}
}

// Create は記録と食材をトランザクション内で保存します。
func (r *journalGorm) Create(ctx context.Context, e *entity.Entry) error {
	m := toModel(e)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&m).Error
	})
}

// FindByID は記録を食材付きで取得します。
func (r *journalGorm) FindByID(ctx context.Context, id string) (*entity.Entry, error) {
	var m EntryModel
	err := r.db.WithContext(ctx).
		Preload("Ingredients", orderByPosition).
		First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	e := toEntity(m)
	return &e, nil
}

// List は新しい順に最大limit件の記録を返します。
func (r *journalGorm) List(ctx context.Context, limit int) ([]entity.Entry, error) {
	var ms []EntryModel
	if err := r.db.WithContext(ctx).
		Preload("Ingredients", orderByPosition).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]entity.Entry, 0, len(ms))
	for _, m := range ms {
		out = append(out, toEntity(m))
	}
	return out, nil
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
