package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "Recipe created successfully"
	MessageSuccessUpdateRecipe    = "Recipe updated successfully"
	MessageSuccessDeleteRecipe    = "Recipe deleted successfully"
	MessageSuccessRateRecipe      = "Rating submitted successfully"
	MessageSuccessAddFavorite     = "Recipe added to favorites"
	MessageSuccessRemoveFavorite  = "Recipe removed from favorites"
	MessageSuccessAddComment      = "Comment added successfully"
	MessageSuccessGetComments     = "success get comments"
	MessageSuccessGetCategories   = "success get categories"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedRateRecipe      = "failed to rate recipe"
	MessageFailedToggleFavorite  = "failed to toggle favorite"
	MessageFailedAddComment      = "failed to add comment"
	MessageFailedGetComments     = "failed to get comments"
	MessageFailedGetCategories   = "failed to get categories"

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrUnauthorizedRecipeAccess = errors.New("not authorized to modify this recipe")
	ErrInvalidRating            = errors.New("rating must be an integer between 1 and 5")
	ErrEmptyComment             = errors.New("comment content is required")
	ErrDuplicateStepNumber      = errors.New("instruction step numbers must be unique")
	ErrCategoryNotFound         = errors.New("category not found")
)

type (
	IngredientRequest struct {
		Name     string `json:"name" validate:"notblank,max=255"`
		Quantity string `json:"quantity" validate:"notblank,max=100"`
		Unit     string `json:"unit" validate:"omitempty,max=50"`
		Notes    string `json:"notes"`
	}

	InstructionRequest struct {
		StepNumber  int    `json:"step_number" validate:"required,gte=1"`
		Description string `json:"description" validate:"notblank"`
	}

	// RecipeRequest is shared by create and update. Image is optional on both.
	RecipeRequest struct {
		Title           string                `json:"title" form:"title" validate:"notblank,max=255"`
		Description     string                `json:"description" form:"description" validate:"notblank"`
		PrepTimeMinutes int                   `json:"prep_time_minutes" form:"prep_time_minutes" validate:"gte=0"`
		CookTimeMinutes int                   `json:"cook_time_minutes" form:"cook_time_minutes" validate:"gte=0"`
		Servings        int                   `json:"servings" form:"servings" validate:"gte=1"`
		Difficulty      string                `json:"difficulty" form:"difficulty" validate:"required,oneof=Easy Medium Hard"`
		Ingredients     []IngredientRequest   `json:"ingredients" form:"-" validate:"dive"`
		Instructions    []InstructionRequest  `json:"instructions" form:"-" validate:"dive"`
		Categories      []uint                `json:"categories" form:"-"`
		Image           *multipart.FileHeader `json:"-" form:"-"`
	}

	RecipeFilter struct {
		Search     string
		Category   string
		Difficulty string
		Page       int
		Limit      int
	}

	RateRecipeRequest struct {
		Rating int `json:"rating" form:"rating"`
	}

	CommentRequest struct {
		Content string `json:"content" form:"content"`
	}

	Ingredient struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Quantity string `json:"quantity"`
		Unit     string `json:"unit,omitempty"`
		Notes    string `json:"notes,omitempty"`
	}

	Instruction struct {
		ID          string `json:"id"`
		StepNumber  int    `json:"step_number"`
		Description string `json:"description"`
	}

	Category struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}

	Recipe struct {
		ID              string    `json:"id"`
		UserID          string    `json:"user_id"`
		Title           string    `json:"title"`
		Description     string    `json:"description"`
		ImageURL        string    `json:"image_url,omitempty"`
		PrepTimeMinutes int       `json:"prep_time_minutes"`
		CookTimeMinutes int       `json:"cook_time_minutes"`
		Servings        int       `json:"servings"`
		Difficulty      string    `json:"difficulty"`
		CreatedAt       time.Time `json:"created_at"`
		UpdatedAt       time.Time `json:"updated_at"`
		Username        string    `json:"username"`
		AuthorImage     string    `json:"author_image,omitempty"`
		AverageRating   float64   `json:"average_rating"`
		RatingCount     int64     `json:"rating_count"`
		CommentCount    int64     `json:"comment_count"`
	}

	RecipeDetail struct {
		Recipe
		Ingredients  []Ingredient  `json:"ingredients"`
		Instructions []Instruction `json:"instructions"`
		Categories   []Category    `json:"categories"`
	}

	FavoriteRecipe struct {
		Recipe
		FavoritedAt time.Time `json:"favorited_at"`
	}

	RecipeListResponse struct {
		Recipes    []Recipe   `json:"recipes"`
		Pagination Pagination `json:"pagination"`
	}

	RatingSummary struct {
		AverageRating float64 `json:"average_rating"`
		RatingCount   int64   `json:"rating_count"`
	}

	FavoriteToggle struct {
		IsFavorited bool `json:"isFavorited"`
	}

	Comment struct {
		ID           string    `json:"id"`
		RecipeID     string    `json:"recipe_id"`
		UserID       string    `json:"user_id"`
		Content      string    `json:"content"`
		CreatedAt    time.Time `json:"created_at"`
		Username     string    `json:"username"`
		ProfileImage string    `json:"profile_image,omitempty"`
	}
)
