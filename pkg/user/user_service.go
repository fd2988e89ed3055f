package user

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"RecipeHub-Backend/domain"
	"RecipeHub-Backend/entities"
	"RecipeHub-Backend/internal/utils/logger"
	"RecipeHub-Backend/internal/utils/storage"
	"RecipeHub-Backend/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error)
		Me(ctx context.Context, userID string) (domain.User, error)
		GetProfile(ctx context.Context, username string) (domain.UserProfile, error)
		UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest, userID string) (domain.User, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		storage        storage.FileStorage
		log            *logger.Logger
		bcryptCost     int
		dummyHash      []byte
	}
)

func NewUserService(
	userRepository UserRepository,
	jwtService jwt.JWTService,
	fileStorage storage.FileStorage,
	log *logger.Logger,
	bcryptCost int,
) UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	// compared against on unknown emails so both login failures cost the same
	dummyHash, _ := bcrypt.GenerateFromPassword([]byte("recipehub-dummy-password"), bcryptCost)

	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		storage:        fileStorage,
		log:            log.With("service", "UserService"),
		bcryptCost:     bcryptCost,
		dummyHash:      dummyHash,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)

	exists, err := s.userRepository.CheckUserExists(ctx, username, email)
	if err != nil {
		return domain.AuthResponse{}, err
	}
	if exists {
		return domain.AuthResponse{}, domain.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return domain.AuthResponse{}, err
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.AuthResponse{}, err
	}

	return s.issue(user)
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
			return domain.AuthResponse{}, domain.ErrInvalidCredentials
		}
		return domain.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return domain.AuthResponse{}, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *userService) issue(user *entities.User) (domain.AuthResponse, error) {
	token, err := s.jwtService.GenerateTokenUser(user.ID.String(), user.Username)
	if err != nil {
		return domain.AuthResponse{}, err
	}
	return domain.AuthResponse{
		Token: token,
		User:  toDomainUser(user),
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.User{}, domain.ErrParseUUID
	}

	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return toDomainUser(user), nil
}

func (s *userService) GetProfile(ctx context.Context, username string) (domain.UserProfile, error) {
	user, err := s.userRepository.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return domain.UserProfile{}, err
	}

	stats, err := s.userRepository.GetUserStats(ctx, user.ID)
	if err != nil {
		return domain.UserProfile{}, err
	}

	return domain.UserProfile{
		ID:            user.ID.String(),
		Username:      user.Username,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		ProfileImage:  user.ProfileImage,
		Bio:           user.Bio,
		CreatedAt:     user.CreatedAt,
		RecipeCount:   stats.RecipeCount,
		AverageRating: stats.AverageRating,
	}, nil
}

// UpdateProfile changes only the fields present in req.
func (s *userService) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest, userID string) (domain.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.User{}, domain.ErrParseUUID
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Bio != nil {
		updates["bio"] = strings.TrimSpace(*req.Bio)
	}
	if len(updates) == 0 && req.ProfileImage == nil {
		return domain.User{}, domain.ErrNoFieldsToUpdate
	}

	current, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	newImage := ""
	if req.ProfileImage != nil {
		newImage, err = s.storeProfileImage(id, current.ProfileImage, req.ProfileImage)
		if err != nil {
			return domain.User{}, err
		}
		updates["profile_image"] = newImage
	}
	updates["updated_at"] = time.Now()

	if err := s.userRepository.UpdateUser(ctx, id, updates); err != nil {
		if newImage != current.ProfileImage {
			s.deleteImage(newImage)
		}
		return domain.User{}, err
	}

	return s.Me(ctx, userID)
}

// storeProfileImage overwrites the object behind currentLink when this
// storage owns it, so a user keeps a single profile image.
func (s *userService) storeProfileImage(id uuid.UUID, currentLink string, file *multipart.FileHeader) (string, error) {
	if objectKey := s.storage.GetObjectKeyFromLink(currentLink); currentLink != "" && objectKey != "" {
		updatedKey, err := s.storage.UpdateFile(objectKey, file, storage.AllowImage...)
		if err != nil {
			return "", err
		}
		return s.storage.GetPublicLinkKey(updatedKey), nil
	}

	objectKey, err := s.storage.UploadFile(id.String(), file, "profiles", storage.AllowImage...)
	if err != nil {
		return "", err
	}
	return s.storage.GetPublicLinkKey(objectKey), nil
}

func (s *userService) deleteImage(link string) {
	if link == "" {
		return
	}
	objectKey := s.storage.GetObjectKeyFromLink(link)
	if objectKey == "" {
		return
	}
	if err := s.storage.DeleteFile(objectKey); err != nil {
		s.log.Warn("failed to delete profile image", "object_key", objectKey, "error", err)
	}
}

func toDomainUser(user *entities.User) domain.User {
	return domain.User{
		ID:           user.ID.String(),
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		ProfileImage: user.ProfileImage,
		Bio:          user.Bio,
		CreatedAt:    user.CreatedAt,
	}
}
