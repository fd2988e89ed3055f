package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

type Recipe struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	ImageURL        string    `json:"image_url,omitempty"`
	PrepTimeMinutes int       `gorm:"not null;default:0;check:prep_time_minutes >= 0" json:"prep_time_minutes"`
	CookTimeMinutes int       `gorm:"not null;default:0;check:cook_time_minutes >= 0" json:"cook_time_minutes"`
	Servings        int       `gorm:"not null;check:servings >= 1" json:"servings"`
	Difficulty      string    `gorm:"size:10;not null;index" json:"difficulty"`

	User             *User            `gorm:"foreignKey:UserID" json:"-"`
	Ingredients      []Ingredient     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Instructions     []Instruction    `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	RecipeCategories []RecipeCategory `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Ratings          []Rating         `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Comments         []Comment        `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Favorites        []Favorite       `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Timestamp
}

// Ingredient quantities are free-form ("1/2", "a pinch"), so they stay text.
type Ingredient struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Quantity string    `gorm:"size:100;not null" json:"quantity"`
	Unit     string    `gorm:"size:50" json:"unit,omitempty"`
	Notes    string    `gorm:"type:text" json:"notes,omitempty"`
	Position int       `gorm:"not null;default:0" json:"-"`
}

type Instruction struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_instruction_recipe_step" json:"recipe_id"`
	StepNumber  int       `gorm:"not null;uniqueIndex:idx_instruction_recipe_step;check:step_number > 0" json:"step_number"`
	Description string    `gorm:"type:text;not null" json:"description"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

type RecipeCategory struct {
	RecipeID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"recipe_id"`
	CategoryID uint      `gorm:"primaryKey" json:"category_id"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

type Rating struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_recipe_user" json:"recipe_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_recipe_user" json:"user_id"`
	Rating   int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"type:timestamp;not null;index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp;not null;index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}
