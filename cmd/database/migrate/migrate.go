package migration

import (
	"RecipeHub-Backend/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultCategories is the taxonomy every installation starts with.
var DefaultCategories = []string{
	"Breakfast",
	"Lunch",
	"Dinner",
	"Dessert",
	"Appetizer",
	"Snack",
	"Vegetarian",
	"Vegan",
	"Gluten-Free",
	"Soup",
	"Salad",
	"Beverage",
}

func Migrate(db *gorm.DB) error {
	// parents before children so foreign keys resolve
	if err := db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Recipe{},
		&entities.Ingredient{},
		&entities.Instruction{},
		&entities.RecipeCategory{},
		&entities.Rating{},
		&entities.Comment{},
		&entities.Favorite{},
	); err != nil {
		return err
	}

	return SeedCategories(db)
}

// SeedCategories inserts missing taxonomy terms and leaves existing ones untouched.
func SeedCategories(db *gorm.DB) error {
	categories := make([]entities.Category, 0, len(DefaultCategories))
	for _, name := range DefaultCategories {
		categories = append(categories, entities.Category{Name: name})
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&categories).Error
}
