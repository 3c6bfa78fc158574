package repository

import (
	"context"

	"github.com/pedroaraujox/Viza-Stock/internal/model"

	"gorm.io/gorm"
)

// RecipeRepository loads and stores recipe aggregates. A recipe is always
// handled as one unit: the header row plus its ordered lines.
type RecipeRepository interface {
	// FindByProductID returns the recipe aggregate with lines in position
	// order and materials preloaded. gorm.ErrRecordNotFound when absent.
	FindByProductID(ctx context.Context, productID string) (*model.Recipe, error)
	List(ctx context.Context) ([]model.Recipe, error)
	// ReplaceTx wholesale-replaces the recipe: existing lines are deleted and
	// the new aggregate is written, all inside the caller's transaction.
	ReplaceTx(tx *gorm.DB, r *model.Recipe) error
	DeleteTx(tx *gorm.DB, recipeID string) error
	// ExistsLineForMaterialTx reports whether any recipe line references the
	// given raw material (blocks its deletion). Runs inside the caller's
	// delete transaction.
	ExistsLineForMaterialTx(tx *gorm.DB, materialID string) (bool, error)

	DB() *gorm.DB
}

type recipeRepo struct{ db *gorm.DB }

func NewRecipeRepository(db *gorm.DB) RecipeRepository { return &recipeRepo{db: db} }

func (r *recipeRepo) DB() *gorm.DB { return r.db }

func (r *recipeRepo) FindByProductID(ctx context.Context, productID string) (*model.Recipe, error) {
	var recipe model.Recipe
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Lines.Material").
		Preload("Product").
		First(&recipe, "product_id = ?", productID).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepo) List(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Lines.Material").
		Preload("Product").
		Order("id ASC").
		Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepo) ReplaceTx(tx *gorm.DB, recipe *model.Recipe) error {
	if err := tx.Delete(&model.RecipeLine{}, "recipe_id = ?", recipe.ID).Error; err != nil {
		return err
	}
	// Save upserts the header; the fresh lines are inserted through the
	// association in the same statement batch.
	return tx.Save(recipe).Error
}

func (r *recipeRepo) DeleteTx(tx *gorm.DB, recipeID string) error {
	if err := tx.Delete(&model.RecipeLine{}, "recipe_id = ?", recipeID).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Recipe{}, "id = ?", recipeID).Error
}

func (r *recipeRepo) ExistsLineForMaterialTx(tx *gorm.DB, materialID string) (bool, error) {
	var count int64
	err := tx.Model(&model.RecipeLine{}).
		Where("material_id = ?", materialID).
		Count(&count).Error
	return count > 0, err
}
