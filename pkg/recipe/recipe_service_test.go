package recipe

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"RecipeHub-Backend/domain"
	"RecipeHub-Backend/entities"
	"RecipeHub-Backend/internal/testutil"
	"RecipeHub-Backend/internal/utils/logger"
	"RecipeHub-Backend/internal/utils/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

type recordingMailer struct {
	sent chan sentMail
}

func (m *recordingMailer) SendMail(to string, subject string, body string) error {
	m.sent <- sentMail{to: to, subject: subject, body: body}
	return nil
}

type fixture struct {
	db      *gorm.DB
	service RecipeService
	mailer  *recordingMailer
	dir     string
}

func setup(t *testing.T) fixture {
	t.Helper()

	db := testutil.NewDB(t)
	dir := t.TempDir()
	fileStorage, err := storage.NewLocalStorage(dir, "/uploads")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	mailer := &recordingMailer{sent: make(chan sentMail, 4)}
	service := NewRecipeService(NewRecipeRepository(db), fileStorage, mailer, logger.Nop(), "http://localhost:5000")
	return fixture{db: db, service: service, mailer: mailer, dir: dir}
}

func soupRequest() domain.RecipeRequest {
	return domain.RecipeRequest{
		Title:           "Soup",
		Description:     "Warm",
		PrepTimeMinutes: 5,
		CookTimeMinutes: 20,
		Servings:        2,
		Difficulty:      "Easy",
		Ingredients: []domain.IngredientRequest{
			{Name: "Water", Quantity: "1", Unit: "l"},
			{Name: "Salt", Quantity: "a pinch"},
		},
		Instructions: []domain.InstructionRequest{
			{StepNumber: 2, Description: "Simmer"},
			{StepNumber: 1, Description: "Boil"},
		},
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, recipeID string) int64 {
	t.Helper()

	var n int64
	if err := db.Model(model).Where("recipe_id = ?", recipeID).Count(&n).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return n
}

func TestCreateAndGetRecipe(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	chef := testutil.CreateUser(t, f.db, "chef1")
	soups := testutil.CategoryID(t, f.db, "Soup")

	req := soupRequest()
	req.Categories = []uint{soups, soups}
	created, err := f.service.CreateRecipe(ctx, req, chef.ID.String())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := f.service.GetRecipeDetail(ctx, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != "Soup" || got.Username != "chef1" {
		t.Errorf("unexpected recipe %+v", got.Recipe)
	}
	if got.AverageRating != 0 || got.RatingCount != 0 || got.CommentCount != 0 {
		t.Errorf("expected empty aggregates, got %+v", got.Recipe)
	}

	names := map[string]bool{}
	for _, ing := range got.Ingredients {
		names[ing.Name] = true
	}
	if len(got.Ingredients) != 2 || !names["Water"] || !names["Salt"] {
		t.Errorf("unexpected ingredients %+v", got.Ingredients)
	}

	if len(got.Instructions) != 2 || got.Instructions[0].StepNumber != 1 || got.Instructions[1].StepNumber != 2 {
		t.Errorf("instructions not ordered by step: %+v", got.Instructions)
	}

	if len(got.Categories) != 1 || got.Categories[0].Name != "Soup" {
		t.Errorf("unexpected categories %+v", got.Categories)
	}
}

func TestCreateRecipeRejectsDuplicateSteps(t *testing.T) {
	f := setup(t)
	chef := testutil.CreateUser(t, f.db, "chef1")

	req := soupRequest()
	req.Instructions = []domain.InstructionRequest{
		{StepNumber: 1, Description: "Boil"},
		{StepNumber: 1, Description: "Boil again"},
	}
	_, err := f.service.CreateRecipe(context.Background(), req, chef.ID.String())
	if !errors.Is(err, domain.ErrDuplicateStepNumber) {
		t.Fatalf("expected ErrDuplicateStepNumber, got %v", err)
	}
}

func TestCreateRecipeUnknownCategoryRollsBack(t *testing.T) {
	f := setup(t)
	chef := testutil.CreateUser(t, f.db, "chef1")

	req := soupRequest()
	req.Categories = []uint{9999}
	_, err := f.service.CreateRecipe(context.Background(), req, chef.ID.String())
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	for _, model := range []interface{}{&entities.Recipe{}, &entities.Ingredient{}, &entities.Instruction{}} {
		var n int64
		f.db.Model(model).Count(&n)
		if n != 0 {
			t.Errorf("expected no rows for %T after rollback, got %d", model, n)
		}
	}
}

func TestUpdateRecipeReplacesChildren(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	chef := testutil.CreateUser(t, f.db, "chef1")

	req := soupRequest()
	req.Ingredients = append(req.Ingredients, domain.IngredientRequest{Name: "Pepper", Quantity: "1 tsp"})
	created, err := f.service.CreateRecipe(ctx, req, chef.ID.String())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(created.Ingredients) != 3 {
		t.Fatalf("expected 3 ingredients, got %d", len(created.Ingredients))
	}

	update := soupRequest()
	update.Title = "Better Soup"
	update.Ingredients = []domain.IngredientRequest{{Name: "Stock", Quantity: "1 l"}}
	update.Instructions = []domain.InstructionRequest{{StepNumber: 1, Description: "Heat"}}
	updated, err := f.service.UpdateRecipe(ctx, created.ID, update, chef.ID.String())
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Title != "Better Soup" {
		t.Errorf("expected new title, got %s", updated.Title)
	}
	if len(updated.Ingredients) != 1 || updated.Ingredients[0].Name != "Stock" {
		t.Errorf("ingredients not replaced: %+v", updated.Ingredients)
	}
	if n := countRows(t, f.db, &entities.Ingredient{}, created.ID); n != 1 {
		t.Errorf("expected 1 ingredient row, got %d", n)
	}
	if n := countRows(t, f.db, &entities.Instruction{}, created.ID); n != 1 {
		t.Errorf("expected 1 instruction row, got %d", n)
	}
}

func TestOnlyOwnerCanModify(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	chef := testutil.CreateUser(t, f.db, "chef1")
	other := testutil.CreateUser(t, f.db, "other")

	created, err := f.service.CreateRecipe(ctx, soupRequest(), chef.ID.String())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := f.service.UpdateRecipe(ctx, created.ID, soupRequest(), other.ID.String()); !errors.Is(err, domain.ErrUnauthorizedRecipeAccess) {
		t.Errorf("expected ErrUnauthorizedRecipeAccess on update, got %v", err)
	}
	if err := f.service.DeleteRecipe(ctx, created.ID, other.ID.String()); !errors.Is(err, domain.ErrUnauthorizedRecipeAccess) {
		t.Errorf("expected ErrUnauthorizedRecipeAccess on delete, got %v", err)
	}
	if _, err := f.service.GetRecipeDetail(ctx, created.ID); err != nil {
		t.Errorf("recipe should survive a rejected delete: %v", err)
	}
}

func TestMissingRecipe(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	chef := testutil.CreateUser(t, f.db, "chef1")

	for _, id := range []string{"not-a-uuid", "7b0f0a52-27a5-4b8c-9a7e-1f6f2a9c0d11"} {
		if _, err := f.service.GetRecipeDetail(ctx, id); !errors.Is(err, domain.ErrRecipeNotFound) {
			t.Errorf("%s: expected ErrRecipeNotFound on get, got %v", id, err)
		}
		if err := f.service.DeleteRecipe(ctx, id, chef.ID.String()); !errors.Is(err, domain.ErrRecipeNotFound) {
			t.Errorf("%s: expected ErrRecipeNotFound on delete, got %v", id, err)
		}
		if _, err := f.service.RateRecipe(ctx, id, domain.RateRecipeRequest{Rating: 3}, chef.ID.String()); !errors.Is(err, domain.ErrRecipeNotFound) {
			t.Errorf("%s: expected ErrRecipeNotFound on rate, got %v", id, err)
		}
		if _, err := f.service.GetComments(ctx, id); !errors.Is(err, domain.ErrRecipeNotFound) {
			t.Errorf("%s: expected ErrRecipeNotFound on comments, got %v", id, err)
		}
	}
}

func TestRateRecipeUpserts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	chef := testutil.CreateUser(t, f.db, "chef1")
	fan := testutil.CreateUser(t, f.db, "fan")
	critic := testutil.CreateUser(t, f.db, "critic")

	created, err := f.service.CreateRecipe(ctx, soupRequest(), chef.ID.String())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := f.service.RateRecipe(ctx, created.ID, domain.RateRecipeRequest{Rating: 3}, fan.ID.String()); err != nil {
		t.Fatalf("first rating failed: %v", err)
	}
	summary, err := f.service.RateRecipe(ctx, created.ID, domain.RateRecipeRequest{Rating: 5}, fan.ID.String())
	if err != nil {
		t.Fatalf("second rating failed: %v", err)
	}
	if summary.RatingCount != 1 || summary.AverageRating != 5 {
		t.Errorf("expected one rating of 5, got %+v", summary)
	}

	summary, err = f.service.RateRecipe(ctx, created.ID, domain.RateRecipeRequest{Rating: 2}, critic.ID.String())
	if err != nil {
		t.Fatalf("critic rating failed: %v", err)
	}
	if summary.RatingCount != 2 || summary.AverageRating != 3.5 {
		t.Errorf("expected average 3.5 over 2, got %+v", summary)
	}

	detail, err := f.service.GetRecipeDetail(ctx, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if detail.RatingCount != 2 || detail.AverageRating != 3.5 {
		t.Errorf("detail aggregates out of sync: %+v", detail.Recipe)
	}
}

func TestRateRecipeRejectsOutOfRange(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	chef := testutil.CreateUser(t, f.db, "chef1")

	created, err := f.service.CreateRecipe(ctx, soupRequest(), chef.ID.String())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for _, rating := range []int{0, 6, -1} {
		if _, err := f.service.RateRecipe(ctx, created.ID, domain.RateRecipeRequest{Rating: rating}, chef.ID.String()); !errors.Is(err, domain.ErrInvalidRating) {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
	if n := countRows(t, f.db, &entities.Rating{}, created.ID); n != 0 {
		t.Errorf("expected no ratings stored, got %d", n)
	}
}

func TestToggleFavorite(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	chef := testutil.CreateUser(t, f.db, "chef1")
	fan := testutil.CreateUser(t, f.db, "fan")

	created, err := f.service.CreateRecipe(ctx, soupRequest(), chef.ID.String())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	res, err := f.service.ToggleFavorite(ctx, created.ID, fan.ID.String())
	if err != nil || !res.IsFavorited {
		t.Fatalf("expected favorited, got %+v, %v", res, err)
	}
	favorites, err := f.service.GetFavoriteRecipes(ctx, fan.ID.String())
	if err != nil {
		t.Fatalf("get favorites failed: %v", err)
	}
	if len(favorites) != 1 || favorites[0].ID != created.ID || favorites[0].FavoritedAt.IsZero() {
		t.Errorf("unexpected favorites %+v", favorites)
	}

	res, err = f.service.ToggleFavorite(ctx, created.ID, fan.ID.String())
	if err != nil || res.IsFavorited {
		t.Fatalf("expected unfavorited, got %+v, %v", res, err)
	}
	favorites, err = f.service.GetFavoriteRecipes(ctx, fan.ID.String())
	if err != nil {
		t.Fatalf("get favorites failed: %v", err)
	}
	if len(favorites) != 0 {
		t.Errorf("expected no favorites, got %d", len(favorites))
	}
}

func TestDeleteRecipeRemovesEverything(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	chef := testutil.CreateUser(t, f.db, "chef1")
	fan := testutil.CreateUser(t, f.db, "fan")

	req := soupRequest()
	req.Categories = []uint{testutil.CategoryID(t, f.db, "Soup")}
	created, err := f.service.CreateRecipe(ctx, req, chef.ID.String())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.service.RateRecipe(ctx, created.ID, domain.RateRecipeRequest{Rating: 4}, fan.ID.String()); err != nil {
		t.Fatalf("rate failed: %v", err)
	}
	if _, err := f.service.ToggleFavorite(ctx, created.ID, fan.ID.String()); err != nil {
		t.Fatalf("favorite failed: %v", err)
	}
	if _, err := f.service.AddComment(ctx, created.ID, domain.CommentRequest{Content: "Nice"}, fan.ID.String()); err != nil {
		t.Fatalf("comment failed: %v", err)
	}

	if err := f.service.DeleteRecipe(ctx, created.ID, chef.ID.String()); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := f.service.GetRecipeDetail(ctx, created.ID); !errors.Is(err, domain.ErrRecipeNotFound) {
		t.Errorf("expected ErrRecipeNotFound after delete, got %v", err)
	}
	children := []interface{}{
		&entities.Ingredient{},
		&entities.Instruction{},
		&entities.RecipeCategory{},
		&entities.Rating{},
		&entities.Comment{},
		&entities.Favorite{},
	}
	for _, model := range children {
		if n := countRows(t, f.db, model, created.ID); n != 0 {
			t.Errorf("expected no %T rows after delete, got %d", model, n)
		}
	}
}

func TestGetRecipesFiltersAndPages(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	chef := testutil.CreateUser(t, f.db, "chef1")
	desserts := testutil.CategoryID(t, f.db, "Dessert")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	titles := []string{"Tomato Soup", "Chocolate Cake", "Beef Stew"}
	ids := make([]string, 0, len(titles))
	for i, title := range titles {
		req := soupRequest()
		req.Title = title
		if title == "Chocolate Cake" {
			req.Difficulty = "Hard"
			req.Categories = []uint{desserts}
		}
		created, err := f.service.CreateRecipe(ctx, req, chef.ID.String())
		if err != nil {
			t.Fatalf("create %s failed: %v", title, err)
		}
		if err := f.db.Model(&entities.Recipe{}).Where("id = ?", created.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Hour)).Error; err != nil {
			t.Fatalf("failed to set created_at: %v", err)
		}
		ids = append(ids, created.ID)
	}

	t.Run("newest first with pagination", func(t *testing.T) {
		page1, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Page: 1, Limit: 2})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(page1.Recipes) != 2 || page1.Recipes[0].ID != ids[2] || page1.Recipes[1].ID != ids[1] {
			t.Errorf("unexpected first page %+v", page1.Recipes)
		}
		want := domain.Pagination{CurrentPage: 1, TotalPages: 2, TotalRecipes: 3, HasMore: true}
		if page1.Pagination != want {
			t.Errorf("expected pagination %+v, got %+v", want, page1.Pagination)
		}

		page2, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Page: 2, Limit: 2})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(page2.Recipes) != 1 || page2.Recipes[0].ID != ids[0] || page2.Pagination.HasMore {
			t.Errorf("unexpected second page %+v", page2)
		}
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		res, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Search: "soup"})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(res.Recipes) != 1 || res.Recipes[0].Title != "Tomato Soup" {
			t.Errorf("unexpected search result %+v", res.Recipes)
		}
	})

	t.Run("category and difficulty", func(t *testing.T) {
		res, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Category: "Dessert", Difficulty: "Hard"})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(res.Recipes) != 1 || res.Recipes[0].Title != "Chocolate Cake" {
			t.Errorf("unexpected filter result %+v", res.Recipes)
		}

		res, err = f.service.GetRecipes(ctx, domain.RecipeFilter{Category: "Dessert", Difficulty: "Easy"})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(res.Recipes) != 0 || res.Pagination.TotalRecipes != 0 {
			t.Errorf("expected no match, got %+v", res)
		}
	})

	t.Run("limit is clamped", func(t *testing.T) {
		res, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Page: 0, Limit: 1000})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if res.Pagination.CurrentPage != 1 || len(res.Recipes) != 3 {
			t.Errorf("unexpected clamped result %+v", res.Pagination)
		}
	})

	t.Run("by author", func(t *testing.T) {
		res, err := f.service.GetUserRecipes(ctx, chef.ID.String())
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(res) != 3 || res[0].ID != ids[2] {
			t.Errorf("unexpected author recipes %+v", res)
		}
	})
}

func TestAddCommentNotifiesOwner(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	chef := testutil.CreateUser(t, f.db, "chef1")
	fan := testutil.CreateUser(t, f.db, "fan")

	created, err := f.service.CreateRecipe(ctx, soupRequest(), chef.ID.String())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	comment, err := f.service.AddComment(ctx, created.ID, domain.CommentRequest{Content: "  Lovely  "}, fan.ID.String())
	if err != nil {
		t.Fatalf("comment failed: %v", err)
	}
	if comment.Content != "Lovely" || comment.Username != "fan" {
		t.Errorf("unexpected comment %+v", comment)
	}

	select {
	case mail := <-f.mailer.sent:
		if mail.to != chef.Email {
			t.Errorf("expected mail to %s, got %s", chef.Email, mail.to)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected a notification to the owner")
	}

	if _, err := f.service.AddComment(ctx, created.ID, domain.CommentRequest{Content: "Thanks"}, chef.ID.String()); err != nil {
		t.Fatalf("owner comment failed: %v", err)
	}
	select {
	case mail := <-f.mailer.sent:
		t.Errorf("owner should not be notified of their own comment, got %+v", mail)
	case <-time.After(100 * time.Millisecond):
	}

	comments, err := f.service.GetComments(ctx, created.ID)
	if err != nil {
		t.Fatalf("get comments failed: %v", err)
	}
	if len(comments) != 2 {
		t.Errorf("expected 2 comments, got %d", len(comments))
	}
}

func TestAddCommentRejectsBlank(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	chef := testutil.CreateUser(t, f.db, "chef1")

	created, err := f.service.CreateRecipe(ctx, soupRequest(), chef.ID.String())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.service.AddComment(ctx, created.ID, domain.CommentRequest{Content: "   "}, chef.ID.String()); !errors.Is(err, domain.ErrEmptyComment) {
		t.Fatalf("expected ErrEmptyComment, got %v", err)
	}
}

func TestGetCategoriesSeeded(t *testing.T) {
	f := setup(t)

	categories, err := f.service.GetCategories(context.Background())
	if err != nil {
		t.Fatalf("get categories failed: %v", err)
	}
	if len(categories) == 0 {
		t.Fatal("expected seeded categories")
	}
	for i := 1; i < len(categories); i++ {
		if categories[i-1].Name > categories[i].Name {
			t.Errorf("categories not sorted: %s before %s", categories[i-1].Name, categories[i].Name)
		}
	}
}

func imagePath(f fixture, link string) string {
	return filepath.Join(f.dir, filepath.FromSlash(strings.TrimPrefix(link, "/uploads/")))
}

func TestUpdateRecipeImage(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	chef := testutil.CreateUser(t, f.db, "chef1")

	req := soupRequest()
	req.Image = testutil.FileHeader(t, "image", "cover.png", testutil.PNG)
	created, err := f.service.CreateRecipe(ctx, req, chef.ID.String())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ImageURL == "" {
		t.Fatal("expected an image url")
	}

	kept, err := f.service.UpdateRecipe(ctx, created.ID, soupRequest(), chef.ID.String())
	if err != nil {
		t.Fatalf("update without image failed: %v", err)
	}
	if kept.ImageURL != created.ImageURL {
		t.Errorf("expected image %s to be kept, got %s", created.ImageURL, kept.ImageURL)
	}
	if _, err := os.Stat(imagePath(f, created.ImageURL)); err != nil {
		t.Errorf("kept image should still exist: %v", err)
	}

	replace := soupRequest()
	replace.Image = testutil.FileHeader(t, "image", "new.png", testutil.PNG)
	replaced, err := f.service.UpdateRecipe(ctx, created.ID, replace, chef.ID.String())
	if err != nil {
		t.Fatalf("update with image failed: %v", err)
	}
	if replaced.ImageURL == "" || replaced.ImageURL == created.ImageURL {
		t.Errorf("expected a new image url, got %s", replaced.ImageURL)
	}
	if _, err := os.Stat(imagePath(f, created.ImageURL)); !os.IsNotExist(err) {
		t.Errorf("old image should be removed, stat returned %v", err)
	}
	if _, err := os.Stat(imagePath(f, replaced.ImageURL)); err != nil {
		t.Errorf("new image should exist: %v", err)
	}
}

func TestGetRecipesBreaksTiesByID(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	chef := testutil.CreateUser(t, f.db, "chef1")

	same := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ids := make([]string, 0, 3)
	for _, title := range []string{"Soup A", "Soup B", "Soup C"} {
		req := soupRequest()
		req.Title = title
		created, err := f.service.CreateRecipe(ctx, req, chef.ID.String())
		if err != nil {
			t.Fatalf("create %s failed: %v", title, err)
		}
		if err := f.db.Model(&entities.Recipe{}).Where("id = ?", created.ID).
			Update("created_at", same).Error; err != nil {
			t.Fatalf("failed to set created_at: %v", err)
		}
		ids = append(ids, created.ID)
	}
	slices.Sort(ids)
	slices.Reverse(ids)

	walk := func() []string {
		var got []string
		for page := 1; page <= len(ids); page++ {
			res, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Page: page, Limit: 1})
			if err != nil {
				t.Fatalf("list page %d failed: %v", page, err)
			}
			if len(res.Recipes) != 1 {
				t.Fatalf("page %d: expected 1 recipe, got %d", page, len(res.Recipes))
			}
			got = append(got, res.Recipes[0].ID)
		}
		return got
	}

	first := walk()
	second := walk()
	if !slices.Equal(first, ids) {
		t.Errorf("expected id descending order %v, got %v", ids, first)
	}
	if !slices.Equal(first, second) {
		t.Errorf("order changed between calls: %v then %v", first, second)
	}
}

func TestGetRecipesSearchIsLiteral(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	chef := testutil.CreateUser(t, f.db, "chef1")

	for _, title := range []string{"50% Less Salt Soup", "500 Calorie Soup", "Tomato_Soup", "TomatoXSoup"} {
		req := soupRequest()
		req.Title = title
		if _, err := f.service.CreateRecipe(ctx, req, chef.ID.String()); err != nil {
			t.Fatalf("create %s failed: %v", title, err)
		}
	}

	tests := []struct {
		search string
		want   string
	}{
		{"50%", "50% Less Salt Soup"},
		{"o_s", "Tomato_Soup"},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			res, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Search: tt.search})
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(res.Recipes) != 1 || res.Recipes[0].Title != tt.want {
				t.Errorf("expected only %q, got %+v", tt.want, res.Recipes)
			}
		})
	}
}

func TestGetRecipesClampsHugePage(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	chef := testutil.CreateUser(t, f.db, "chef1")

	if _, err := f.service.CreateRecipe(ctx, soupRequest(), chef.ID.String()); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	res, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Page: math.MaxInt, Limit: MaxPageLimit})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(res.Recipes) != 0 {
		t.Errorf("expected an empty page, got %d recipes", len(res.Recipes))
	}
	if res.Pagination.CurrentPage != MaxPage || res.Pagination.HasMore || res.Pagination.TotalRecipes != 1 {
		t.Errorf("unexpected pagination %+v", res.Pagination)
	}
}

func TestToggleFavoriteConcurrentInsert(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	chef := testutil.CreateUser(t, f.db, "chef1")
	fan := testutil.CreateUser(t, f.db, "fan")

	created, err := f.service.CreateRecipe(ctx, soupRequest(), chef.ID.String())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Another request wins the race and inserts the same favorite first.
	err = f.db.Callback().Create().Before("gorm:create").Register("test:concurrent_favorite", func(tx *gorm.DB) {
		favorite, ok := tx.Statement.Dest.(*entities.Favorite)
		if !ok {
			return
		}
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO favorites (id, user_id, recipe_id, created_at) VALUES (?, ?, ?, ?)",
			uuid.New(), favorite.UserID, favorite.RecipeID, time.Now(),
		)
	})
	if err != nil {
		t.Fatalf("failed to register callback: %v", err)
	}

	res, err := f.service.ToggleFavorite(ctx, created.ID, fan.ID.String())
	if err != nil {
		t.Fatalf("expected the duplicate insert to be absorbed, got %v", err)
	}
	if !res.IsFavorited {
		t.Errorf("expected favorited, got %+v", res)
	}
}
