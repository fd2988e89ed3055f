package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessRegister      = "User registered successfully"
	MessageSuccessLogin         = "Login successful"
	MessageSuccessGetUser       = "success get user"
	MessageSuccessGetProfile    = "success get user profile"
	MessageSuccessUpdateProfile = "Profile updated successfully"
	MessageSuccessGetFavorites  = "success get favorite recipes"

	MessageFailedRegister      = "failed to register user"
	MessageFailedLogin         = "failed to login"
	MessageFailedGetUser       = "failed to get user"
	MessageFailedGetProfile    = "failed to get user profile"
	MessageFailedUpdateProfile = "failed to update profile"
	MessageFailedGetFavorites  = "failed to get favorite recipes"

	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
)

type (
	RegisterRequest struct {
		Username  string `json:"username" form:"username" validate:"required,min=3,max=50"`
		Email     string `json:"email" form:"email" validate:"required,email,max=255"`
		Password  string `json:"password" form:"password" validate:"required,min=6,max=72"`
		FirstName string `json:"first_name" form:"first_name" validate:"omitempty,max=100"`
		LastName  string `json:"last_name" form:"last_name" validate:"omitempty,max=100"`
	}

	LoginRequest struct {
		Email    string `json:"email" form:"email" validate:"required"`
		Password string `json:"password" form:"password" validate:"required"`
	}

	// UpdateProfileRequest leaves a field nil when the client did not send it.
	UpdateProfileRequest struct {
		FirstName    *string               `json:"first_name" form:"first_name" validate:"omitempty,max=100"`
		LastName     *string               `json:"last_name" form:"last_name" validate:"omitempty,max=100"`
		Bio          *string               `json:"bio" form:"bio" validate:"omitempty,max=2000"`
		ProfileImage *multipart.FileHeader `json:"-" form:"-"`
	}

	User struct {
		ID           string    `json:"id"`
		Username     string    `json:"username"`
		Email        string    `json:"email"`
		FirstName    string    `json:"first_name"`
		LastName     string    `json:"last_name"`
		ProfileImage string    `json:"profile_image,omitempty"`
		Bio          string    `json:"bio"`
		CreatedAt    time.Time `json:"created_at"`
	}

	AuthResponse struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}

	UserProfile struct {
		ID            string    `json:"id"`
		Username      string    `json:"username"`
		FirstName     string    `json:"first_name"`
		LastName      string    `json:"last_name"`
		ProfileImage  string    `json:"profile_image,omitempty"`
		Bio           string    `json:"bio"`
		CreatedAt     time.Time `json:"created_at"`
		RecipeCount   int64     `json:"recipe_count"`
		AverageRating float64   `json:"average_rating"`
	}
)
