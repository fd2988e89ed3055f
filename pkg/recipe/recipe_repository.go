package recipe

import (
	"context"
	"errors"
	"strings"
	"time"

	"RecipeHub-Backend/domain"
	"RecipeHub-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, categoryIDs []uint) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, categoryIDs []uint) (string, error)
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		GetRecipeDetail(ctx context.Context, id uuid.UUID) (*RecipeRow, error)
		GetIngredients(ctx context.Context, recipeID uuid.UUID) ([]entities.Ingredient, error)
		GetInstructions(ctx context.Context, recipeID uuid.UUID) ([]entities.Instruction, error)
		GetRecipeCategories(ctx context.Context, recipeID uuid.UUID) ([]entities.Category, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter) ([]RecipeRow, int64, error)
		GetRecipesByUser(ctx context.Context, userID uuid.UUID) ([]RecipeRow, error)
		GetFavoriteRecipes(ctx context.Context, userID uuid.UUID) ([]RecipeRow, error)
		UpsertRating(ctx context.Context, recipeID, userID uuid.UUID, rating int) (RatingAggregate, error)
		ToggleFavorite(ctx context.Context, recipeID, userID uuid.UUID) (bool, error)
		CreateComment(ctx context.Context, comment *entities.Comment) error
		GetCommentByID(ctx context.Context, id uuid.UUID) (*CommentRow, error)
		GetComments(ctx context.Context, recipeID uuid.UUID) ([]CommentRow, error)
		GetCategories(ctx context.Context) ([]entities.Category, error)
	}

	// RecipeRow is a recipe joined with its author and live social aggregates.
	RecipeRow struct {
		ID              uuid.UUID
		UserID          uuid.UUID
		Title           string
		Description     string
		ImageURL        string
		PrepTimeMinutes int
		CookTimeMinutes int
		Servings        int
		Difficulty      string
		CreatedAt       time.Time
		UpdatedAt       time.Time
		Username        string
		AuthorImage     string
		AverageRating   float64
		RatingCount     int64
		CommentCount    int64
		FavoritedAt     time.Time
	}

	CommentRow struct {
		ID           uuid.UUID
		RecipeID     uuid.UUID
		UserID       uuid.UUID
		Content      string
		CreatedAt    time.Time
		Username     string
		ProfileImage string
	}

	RatingAggregate struct {
		AverageRating float64
		RatingCount   int64
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

const recipeRowColumns = `recipes.id, recipes.user_id, recipes.title, recipes.description,
	COALESCE(recipes.image_url, '') AS image_url,
	recipes.prep_time_minutes, recipes.cook_time_minutes, recipes.servings, recipes.difficulty,
	recipes.created_at, recipes.updated_at,
	users.username, COALESCE(users.profile_image, '') AS author_image,
	(SELECT CAST(COALESCE(AVG(rt.rating), 0) AS FLOAT) FROM ratings rt WHERE rt.recipe_id = recipes.id) AS average_rating,
	(SELECT COUNT(*) FROM ratings rt WHERE rt.recipe_id = recipes.id) AS rating_count,
	(SELECT COUNT(*) FROM comments cm WHERE cm.recipe_id = recipes.id) AS comment_count`

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, categoryIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return insertChildren(tx, recipe, categoryIDs)
	})
}

// UpdateRecipe overwrites the scalars and replaces every child collection.
// It returns the image url stored before the update.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, categoryIDs []uint) (string, error) {
	var previousImage string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current entities.Recipe
		if err := tx.Select("id", "image_url").Where("id = ?", recipe.ID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRecipeNotFound
			}
			return err
		}
		previousImage = current.ImageURL
		if recipe.ImageURL == "" {
			recipe.ImageURL = current.ImageURL
		}

		recipe.UpdatedAt = time.Now()
		if err := tx.Model(&entities.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
			"title":             recipe.Title,
			"description":       recipe.Description,
			"image_url":         recipe.ImageURL,
			"prep_time_minutes": recipe.PrepTimeMinutes,
			"cook_time_minutes": recipe.CookTimeMinutes,
			"servings":          recipe.Servings,
			"difficulty":        recipe.Difficulty,
			"updated_at":        recipe.UpdatedAt,
		}).Error; err != nil {
			return err
		}

		for _, model := range []interface{}{&entities.Ingredient{}, &entities.Instruction{}, &entities.RecipeCategory{}} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return insertChildren(tx, recipe, categoryIDs)
	})
	return previousImage, err
}

func insertChildren(tx *gorm.DB, recipe *entities.Recipe, categoryIDs []uint) error {
	for i := range recipe.Ingredients {
		recipe.Ingredients[i].ID = uuid.Nil
		recipe.Ingredients[i].RecipeID = recipe.ID
		recipe.Ingredients[i].Position = i
	}
	if len(recipe.Ingredients) > 0 {
		if err := tx.Create(&recipe.Ingredients).Error; err != nil {
			return err
		}
	}

	for i := range recipe.Instructions {
		recipe.Instructions[i].ID = uuid.Nil
		recipe.Instructions[i].RecipeID = recipe.ID
	}
	if len(recipe.Instructions) > 0 {
		if err := tx.Create(&recipe.Instructions).Error; err != nil {
			return err
		}
	}

	ids := uniqueIDs(categoryIDs)
	recipe.RecipeCategories = nil
	if len(ids) == 0 {
		return nil
	}

	var found int64
	if err := tx.Model(&entities.Category{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
		return err
	}
	if found != int64(len(ids)) {
		return domain.ErrCategoryNotFound
	}

	links := make([]entities.RecipeCategory, 0, len(ids))
	for _, id := range ids {
		links = append(links, entities.RecipeCategory{RecipeID: recipe.ID, CategoryID: id})
	}
	if err := tx.Create(&links).Error; err != nil {
		return err
	}
	recipe.RecipeCategories = links
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// DeleteRecipe removes the recipe with every owned and social row.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		children := []interface{}{
			&entities.Ingredient{},
			&entities.Instruction{},
			&entities.RecipeCategory{},
			&entities.Rating{},
			&entities.Comment{},
			&entities.Favorite{},
		}
		for _, model := range children {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		res := tx.Where("id = ?", id).Delete(&entities.Recipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}
		return nil
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) recipeRows(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("recipes").
		Select(recipeRowColumns).
		Joins("JOIN users ON users.id = recipes.user_id")
}

func (r *recipeRepository) GetRecipeDetail(ctx context.Context, id uuid.UUID) (*RecipeRow, error) {
	var rows []RecipeRow
	if err := r.recipeRows(ctx).Where("recipes.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrRecipeNotFound
	}
	return &rows[0], nil
}

func (r *recipeRepository) GetIngredients(ctx context.Context, recipeID uuid.UUID) ([]entities.Ingredient, error) {
	var ingredients []entities.Ingredient
	err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("position ASC").
		Order("id ASC").
		Find(&ingredients).Error
	return ingredients, err
}

func (r *recipeRepository) GetInstructions(ctx context.Context, recipeID uuid.UUID) ([]entities.Instruction, error) {
	var instructions []entities.Instruction
	err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("step_number ASC").
		Find(&instructions).Error
	return instructions, err
}

func (r *recipeRepository) GetRecipeCategories(ctx context.Context, recipeID uuid.UUID) ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.WithContext(ctx).
		Joins("JOIN recipe_categories ON recipe_categories.category_id = categories.id").
		Where("recipe_categories.recipe_id = ?", recipeID).
		Order("categories.name ASC").
		Find(&categories).Error
	return categories, err
}

// likeEscaper makes search text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func applyRecipeFilter(q *gorm.DB, filter domain.RecipeFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + likeEscaper.Replace(filter.Search) + "%"
		q = q.Where(`(LOWER(recipes.title) LIKE LOWER(?) ESCAPE '\' OR LOWER(recipes.description) LIKE LOWER(?) ESCAPE '\')`, pattern, pattern)
	}
	if filter.Category != "" {
		q = q.Where(`recipes.id IN (
			SELECT recipe_categories.recipe_id FROM recipe_categories
			JOIN categories ON categories.id = recipe_categories.category_id
			WHERE categories.name = ?)`, filter.Category)
	}
	if filter.Difficulty != "" {
		q = q.Where("recipes.difficulty = ?", filter.Difficulty)
	}
	return q
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter) ([]RecipeRow, int64, error) {
	var count int64
	if err := applyRecipeFilter(r.db.WithContext(ctx).Model(&entities.Recipe{}), filter).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	rows := []RecipeRow{}
	offset := (filter.Page - 1) * filter.Limit
	if err := applyRecipeFilter(r.recipeRows(ctx), filter).
		Order("recipes.created_at DESC").
		Order("recipes.id DESC").
		Offset(offset).
		Limit(filter.Limit).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, count, nil
}

func (r *recipeRepository) GetRecipesByUser(ctx context.Context, userID uuid.UUID) ([]RecipeRow, error) {
	rows := []RecipeRow{}
	err := r.recipeRows(ctx).
		Where("recipes.user_id = ?", userID).
		Order("recipes.created_at DESC").
		Order("recipes.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *recipeRepository) GetFavoriteRecipes(ctx context.Context, userID uuid.UUID) ([]RecipeRow, error) {
	rows := []RecipeRow{}
	err := r.recipeRows(ctx).
		Select(recipeRowColumns+", favorites.created_at AS favorited_at").
		Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Order("recipes.id DESC").
		Scan(&rows).Error
	return rows, err
}

// UpsertRating writes the user's rating and reads the aggregate back on the
// same transaction.
func (r *recipeRepository) UpsertRating(ctx context.Context, recipeID, userID uuid.UUID, rating int) (RatingAggregate, error) {
	var agg RatingAggregate
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := entities.Rating{RecipeID: recipeID, UserID: userID, Rating: rating}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "recipe_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"rating":     rating,
				"updated_at": time.Now(),
			}),
		}).Create(&row).Error; err != nil {
			return err
		}

		return tx.Model(&entities.Rating{}).
			Select("CAST(COALESCE(AVG(rating), 0) AS FLOAT) AS average_rating, COUNT(*) AS rating_count").
			Where("recipe_id = ?", recipeID).
			Scan(&agg).Error
	})
	return agg, err
}

// ToggleFavorite reports whether the recipe is favorited after the call.
func (r *recipeRepository) ToggleFavorite(ctx context.Context, recipeID, userID uuid.UUID) (bool, error) {
	favorited := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&entities.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		favorited = true
		return tx.Create(&entities.Favorite{UserID: userID, RecipeID: recipeID}).Error
	})
	// A concurrent toggle inserted the same row first.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true, nil
	}
	return favorited, err
}

func (r *recipeRepository) CreateComment(ctx context.Context, comment *entities.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

func (r *recipeRepository) commentRows(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.recipe_id, comments.user_id, comments.content, comments.created_at, users.username, COALESCE(users.profile_image, '') AS profile_image").
		Joins("JOIN users ON users.id = comments.user_id")
}

func (r *recipeRepository) GetCommentByID(ctx context.Context, id uuid.UUID) (*CommentRow, error) {
	var rows []CommentRow
	if err := r.commentRows(ctx).Where("comments.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *recipeRepository) GetComments(ctx context.Context, recipeID uuid.UUID) ([]CommentRow, error) {
	rows := []CommentRow{}
	err := r.commentRows(ctx).
		Where("comments.recipe_id = ?", recipeID).
		Order("comments.created_at DESC").
		Order("comments.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *recipeRepository) GetCategories(ctx context.Context) ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}
