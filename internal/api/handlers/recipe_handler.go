package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"RecipeHub-Backend/domain"
	"RecipeHub-Backend/internal/api/presenters"
	"RecipeHub-Backend/internal/utils/logger"
	"RecipeHub-Backend/pkg/recipe"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		GetCategories(c *fiber.Ctx) error
		GetRecipes(c *fiber.Ctx) error
		GetRecipe(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		AddComment(c *fiber.Ctx) error
		GetComments(c *fiber.Ctx) error
		RateRecipe(c *fiber.Ctx) error
		ToggleFavorite(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
		log           *logger.Logger
	}

	// recipeForm is the multipart shape of a recipe. Child collections
	// arrive as JSON text fields.
	recipeForm struct {
		Title           string `form:"title"`
		Description     string `form:"description"`
		PrepTimeMinutes int    `form:"prep_time_minutes"`
		CookTimeMinutes int    `form:"cook_time_minutes"`
		Servings        int    `form:"servings"`
		Difficulty      string `form:"difficulty"`
		Ingredients     string `form:"ingredients"`
		Instructions    string `form:"instructions"`
		Categories      string `form:"categories"`
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate, log *logger.Logger) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
		log:           log.With("handler", "RecipeHandler"),
	}
}

func (h *recipeHandler) parseRecipeRequest(c *fiber.Ctx) (domain.RecipeRequest, error) {
	var req domain.RecipeRequest
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		if err := c.BodyParser(&req); err != nil {
			return req, err
		}
		return req, nil
	}

	form := new(recipeForm)
	if err := c.BodyParser(form); err != nil {
		return req, err
	}
	req = domain.RecipeRequest{
		Title:           form.Title,
		Description:     form.Description,
		PrepTimeMinutes: form.PrepTimeMinutes,
		CookTimeMinutes: form.CookTimeMinutes,
		Servings:        form.Servings,
		Difficulty:      form.Difficulty,
	}
	if err := decodeJSONField(form.Ingredients, &req.Ingredients); err != nil {
		return req, err
	}
	if err := decodeJSONField(form.Instructions, &req.Instructions); err != nil {
		return req, err
	}
	if err := decodeJSONField(form.Categories, &req.Categories); err != nil {
		return req, err
	}

	if file, err := c.FormFile("image"); err == nil {
		req.Image = file
	}
	return req, nil
}

func decodeJSONField(raw string, dst interface{}) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

func (h *recipeHandler) GetCategories(c *fiber.Ctx) error {
	res, err := h.recipeService.GetCategories(c.Context())
	if err != nil {
		return failure(c, h.log, domain.MessageFailedGetCategories, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetCategories)
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(recipe.DefaultPageLimit)))
	if err != nil || limit < 1 {
		limit = recipe.DefaultPageLimit
	}

	res, err := h.recipeService.GetRecipes(c.Context(), domain.RecipeFilter{
		Search:     c.Query("search"),
		Category:   c.Query("category"),
		Difficulty: c.Query("difficulty"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return failure(c, h.log, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipe(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipeDetail(c.Context(), c.Params("id"))
	if err != nil {
		return failure(c, h.log, domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	req, err := h.parseRecipeRequest(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), req, currentUserID(c))
	if err != nil {
		return failure(c, h.log, domain.MessageFailedCreateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	req, err := h.parseRecipeRequest(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), c.Params("id"), req, currentUserID(c))
	if err != nil {
		return failure(c, h.log, domain.MessageFailedUpdateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	if err := h.recipeService.DeleteRecipe(c.Context(), c.Params("id"), currentUserID(c)); err != nil {
		return failure(c, h.log, domain.MessageFailedDeleteRecipe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteRecipe)
}

func (h *recipeHandler) AddComment(c *fiber.Ctx) error {
	req := new(domain.CommentRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.recipeService.AddComment(c.Context(), c.Params("id"), *req, currentUserID(c))
	if err != nil {
		return failure(c, h.log, domain.MessageFailedAddComment, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddComment)
}

func (h *recipeHandler) GetComments(c *fiber.Ctx) error {
	res, err := h.recipeService.GetComments(c.Context(), c.Params("id"))
	if err != nil {
		return failure(c, h.log, domain.MessageFailedGetComments, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetComments)
}

func (h *recipeHandler) RateRecipe(c *fiber.Ctx) error {
	req := new(domain.RateRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRateRecipe, domain.ErrInvalidRating)
	}

	res, err := h.recipeService.RateRecipe(c.Context(), c.Params("id"), *req, currentUserID(c))
	if err != nil {
		return failure(c, h.log, domain.MessageFailedRateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRateRecipe)
}

func (h *recipeHandler) ToggleFavorite(c *fiber.Ctx) error {
	res, err := h.recipeService.ToggleFavorite(c.Context(), c.Params("id"), currentUserID(c))
	if err != nil {
		return failure(c, h.log, domain.MessageFailedToggleFavorite, err)
	}

	message := domain.MessageSuccessRemoveFavorite
	if res.IsFavorited {
		message = domain.MessageSuccessAddFavorite
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, message)
}
