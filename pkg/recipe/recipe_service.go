package recipe

import (
	"context"
	"math"
	"strings"

	"RecipeHub-Backend/domain"
	"RecipeHub-Backend/entities"
	"RecipeHub-Backend/internal/utils/logger"
	"RecipeHub-Backend/internal/utils/mailing"
	"RecipeHub-Backend/internal/utils/storage"

	"github.com/google/uuid"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.RecipeRequest, userID string) (domain.RecipeDetail, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeRequest, userID string) (domain.RecipeDetail, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error
		GetRecipeDetail(ctx context.Context, recipeID string) (domain.RecipeDetail, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter) (domain.RecipeListResponse, error)
		GetUserRecipes(ctx context.Context, userID string) ([]domain.Recipe, error)
		GetFavoriteRecipes(ctx context.Context, userID string) ([]domain.FavoriteRecipe, error)
		RateRecipe(ctx context.Context, recipeID string, req domain.RateRecipeRequest, userID string) (domain.RatingSummary, error)
		ToggleFavorite(ctx context.Context, recipeID string, userID string) (domain.FavoriteToggle, error)
		AddComment(ctx context.Context, recipeID string, req domain.CommentRequest, userID string) (domain.Comment, error)
		GetComments(ctx context.Context, recipeID string) ([]domain.Comment, error)
		GetCategories(ctx context.Context) ([]domain.Category, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		storage          storage.FileStorage
		mailer           mailing.Mailer
		log              *logger.Logger
		appURL           string
	}
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100

	// MaxPage keeps the row offset inside 32 bits.
	MaxPage = math.MaxInt32 / MaxPageLimit
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	fileStorage storage.FileStorage,
	mailer mailing.Mailer,
	log *logger.Logger,
	appURL string,
) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		storage:          fileStorage,
		mailer:           mailer,
		log:              log.With("service", "RecipeService"),
		appURL:           strings.TrimRight(appURL, "/"),
	}
}

// parseRecipeID treats a malformed id as a recipe that does not exist.
func parseRecipeID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domain.ErrRecipeNotFound
	}
	return parsed, nil
}

func parseUserID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domain.ErrParseUUID
	}
	return parsed, nil
}

// buildRecipe maps a request onto an entity. Step numbers must be unique.
func buildRecipe(req domain.RecipeRequest) (*entities.Recipe, error) {
	recipe := &entities.Recipe{
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		PrepTimeMinutes: req.PrepTimeMinutes,
		CookTimeMinutes: req.CookTimeMinutes,
		Servings:        req.Servings,
		Difficulty:      req.Difficulty,
	}

	for _, ing := range req.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, entities.Ingredient{
			Name:     strings.TrimSpace(ing.Name),
			Quantity: strings.TrimSpace(ing.Quantity),
			Unit:     strings.TrimSpace(ing.Unit),
			Notes:    strings.TrimSpace(ing.Notes),
		})
	}

	steps := make(map[int]struct{}, len(req.Instructions))
	for _, ins := range req.Instructions {
		if _, dup := steps[ins.StepNumber]; dup {
			return nil, domain.ErrDuplicateStepNumber
		}
		steps[ins.StepNumber] = struct{}{}
		recipe.Instructions = append(recipe.Instructions, entities.Instruction{
			StepNumber:  ins.StepNumber,
			Description: strings.TrimSpace(ins.Description),
		})
	}
	return recipe, nil
}

// uploadImage stores the request image and returns its public link.
func (s *recipeService) uploadImage(req domain.RecipeRequest) (string, error) {
	if req.Image == nil {
		return "", nil
	}
	objectKey, err := s.storage.UploadFile(uuid.NewString(), req.Image, "recipes", storage.AllowImage...)
	if err != nil {
		return "", err
	}
	return s.storage.GetPublicLinkKey(objectKey), nil
}

func (s *recipeService) discardImage(link string) {
	if link == "" {
		return
	}
	objectKey := s.storage.GetObjectKeyFromLink(link)
	if objectKey == "" {
		return
	}
	if err := s.storage.DeleteFile(objectKey); err != nil {
		s.log.Warn("failed to delete recipe image", "object_key", objectKey, "error", err)
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.RecipeRequest, userID string) (domain.RecipeDetail, error) {
	ownerID, err := parseUserID(userID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	recipe, err := buildRecipe(req)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	recipe.UserID = ownerID

	imageURL, err := s.uploadImage(req)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	recipe.ImageURL = imageURL

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, req.Categories); err != nil {
		s.discardImage(imageURL)
		return domain.RecipeDetail{}, err
	}

	return s.GetRecipeDetail(ctx, recipe.ID.String())
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeRequest, userID string) (domain.RecipeDetail, error) {
	id, err := parseRecipeID(recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	existing, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	if existing.UserID.String() != userID {
		return domain.RecipeDetail{}, domain.ErrUnauthorizedRecipeAccess
	}

	recipe, err := buildRecipe(req)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	recipe.ID = id
	recipe.UserID = existing.UserID

	imageURL, err := s.uploadImage(req)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	recipe.ImageURL = imageURL

	previousImage, err := s.recipeRepository.UpdateRecipe(ctx, recipe, req.Categories)
	if err != nil {
		s.discardImage(imageURL)
		return domain.RecipeDetail{}, err
	}
	if imageURL != "" && previousImage != imageURL {
		s.discardImage(previousImage)
	}

	return s.GetRecipeDetail(ctx, recipeID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	id, err := parseRecipeID(recipeID)
	if err != nil {
		return err
	}

	existing, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID.String() != userID {
		return domain.ErrUnauthorizedRecipeAccess
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	s.discardImage(existing.ImageURL)
	return nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string) (domain.RecipeDetail, error) {
	id, err := parseRecipeID(recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	row, err := s.recipeRepository.GetRecipeDetail(ctx, id)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	ingredients, err := s.recipeRepository.GetIngredients(ctx, id)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	instructions, err := s.recipeRepository.GetInstructions(ctx, id)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	categories, err := s.recipeRepository.GetRecipeCategories(ctx, id)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	detail := domain.RecipeDetail{
		Recipe:       toDomainRecipe(*row),
		Ingredients:  make([]domain.Ingredient, 0, len(ingredients)),
		Instructions: make([]domain.Instruction, 0, len(instructions)),
		Categories:   toDomainCategories(categories),
	}
	for _, ing := range ingredients {
		detail.Ingredients = append(detail.Ingredients, domain.Ingredient{
			ID:       ing.ID.String(),
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
			Notes:    ing.Notes,
		})
	}
	for _, ins := range instructions {
		detail.Instructions = append(detail.Instructions, domain.Instruction{
			ID:          ins.ID.String(),
			StepNumber:  ins.StepNumber,
			Description: ins.Description,
		})
	}
	return detail, nil
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter) (domain.RecipeListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultPageLimit
	}
	if filter.Limit > MaxPageLimit {
		filter.Limit = MaxPageLimit
	}
	if filter.Page > MaxPage {
		filter.Page = MaxPage
	}
	filter.Search = strings.TrimSpace(filter.Search)

	rows, count, err := s.recipeRepository.GetRecipes(ctx, filter)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	return domain.RecipeListResponse{
		Recipes:    toDomainRecipes(rows),
		Pagination: domain.NewPagination(filter.Page, filter.Limit, count),
	}, nil
}

func (s *recipeService) GetUserRecipes(ctx context.Context, userID string) ([]domain.Recipe, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.recipeRepository.GetRecipesByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDomainRecipes(rows), nil
}

func (s *recipeService) GetFavoriteRecipes(ctx context.Context, userID string) ([]domain.FavoriteRecipe, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.recipeRepository.GetFavoriteRecipes(ctx, id)
	if err != nil {
		return nil, err
	}

	res := make([]domain.FavoriteRecipe, 0, len(rows))
	for _, row := range rows {
		res = append(res, domain.FavoriteRecipe{
			Recipe:      toDomainRecipe(row),
			FavoritedAt: row.FavoritedAt,
		})
	}
	return res, nil
}

func (s *recipeService) RateRecipe(ctx context.Context, recipeID string, req domain.RateRecipeRequest, userID string) (domain.RatingSummary, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return domain.RatingSummary{}, domain.ErrInvalidRating
	}

	id, err := parseRecipeID(recipeID)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	raterID, err := parseUserID(userID)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	if _, err := s.recipeRepository.GetRecipeByID(ctx, id); err != nil {
		return domain.RatingSummary{}, err
	}

	agg, err := s.recipeRepository.UpsertRating(ctx, id, raterID, req.Rating)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	return domain.RatingSummary{
		AverageRating: agg.AverageRating,
		RatingCount:   agg.RatingCount,
	}, nil
}

func (s *recipeService) ToggleFavorite(ctx context.Context, recipeID string, userID string) (domain.FavoriteToggle, error) {
	id, err := parseRecipeID(recipeID)
	if err != nil {
		return domain.FavoriteToggle{}, err
	}
	uid, err := parseUserID(userID)
	if err != nil {
		return domain.FavoriteToggle{}, err
	}
	if _, err := s.recipeRepository.GetRecipeByID(ctx, id); err != nil {
		return domain.FavoriteToggle{}, err
	}

	favorited, err := s.recipeRepository.ToggleFavorite(ctx, id, uid)
	if err != nil {
		return domain.FavoriteToggle{}, err
	}
	return domain.FavoriteToggle{IsFavorited: favorited}, nil
}

func (s *recipeService) AddComment(ctx context.Context, recipeID string, req domain.CommentRequest, userID string) (domain.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return domain.Comment{}, domain.ErrEmptyComment
	}

	id, err := parseRecipeID(recipeID)
	if err != nil {
		return domain.Comment{}, err
	}
	uid, err := parseUserID(userID)
	if err != nil {
		return domain.Comment{}, err
	}
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.Comment{}, err
	}

	comment := &entities.Comment{
		RecipeID: id,
		UserID:   uid,
		Content:  content,
	}
	if err := s.recipeRepository.CreateComment(ctx, comment); err != nil {
		return domain.Comment{}, err
	}

	row, err := s.recipeRepository.GetCommentByID(ctx, comment.ID)
	if err != nil {
		return domain.Comment{}, err
	}

	if recipe.User != nil && recipe.UserID != uid {
		go s.notifyOwner(recipe, row.Username, content)
	}
	return toDomainComment(*row), nil
}

// notifyOwner runs detached from the request. Failures are only logged.
func (s *recipeService) notifyOwner(recipe *entities.Recipe, commenter string, content string) {
	subject, body, err := mailing.CommentNotificationMail(mailing.CommentNotification{
		Owner:     recipe.User.Username,
		Commenter: commenter,
		Title:     recipe.Title,
		Content:   content,
		Link:      s.appURL + "/recipes/" + recipe.ID.String(),
	})
	if err == nil {
		err = s.mailer.SendMail(recipe.User.Email, subject, body)
	}
	if err != nil {
		s.log.Warn("failed to send comment notification", "recipe_id", recipe.ID.String(), "error", err)
	}
}

func (s *recipeService) GetComments(ctx context.Context, recipeID string) ([]domain.Comment, error) {
	id, err := parseRecipeID(recipeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.recipeRepository.GetRecipeByID(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.recipeRepository.GetComments(ctx, id)
	if err != nil {
		return nil, err
	}
	res := make([]domain.Comment, 0, len(rows))
	for _, row := range rows {
		res = append(res, toDomainComment(row))
	}
	return res, nil
}

func (s *recipeService) GetCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.recipeRepository.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	return toDomainCategories(categories), nil
}

func toDomainRecipe(row RecipeRow) domain.Recipe {
	return domain.Recipe{
		ID:              row.ID.String(),
		UserID:          row.UserID.String(),
		Title:           row.Title,
		Description:     row.Description,
		ImageURL:        row.ImageURL,
		PrepTimeMinutes: row.PrepTimeMinutes,
		CookTimeMinutes: row.CookTimeMinutes,
		Servings:        row.Servings,
		Difficulty:      row.Difficulty,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		Username:        row.Username,
		AuthorImage:     row.AuthorImage,
		AverageRating:   row.AverageRating,
		RatingCount:     row.RatingCount,
		CommentCount:    row.CommentCount,
	}
}

func toDomainRecipes(rows []RecipeRow) []domain.Recipe {
	res := make([]domain.Recipe, 0, len(rows))
	for _, row := range rows {
		res = append(res, toDomainRecipe(row))
	}
	return res
}

func toDomainCategories(categories []entities.Category) []domain.Category {
	res := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		res = append(res, domain.Category{ID: c.ID, Name: c.Name})
	}
	return res
}

func toDomainComment(row CommentRow) domain.Comment {
	return domain.Comment{
		ID:           row.ID.String(),
		RecipeID:     row.RecipeID.String(),
		UserID:       row.UserID.String(),
		Content:      row.Content,
		CreatedAt:    row.CreatedAt,
		Username:     row.Username,
		ProfileImage: row.ProfileImage,
	}
}
