package services

import (
	"errors"
	"fmt"

	"github.com/Conceptual-Machines/alpacka-api/internal/models"
	"gorm.io/gorm"
)

// ErrUserNotFound is returned when no user matches
var ErrUserNotFound = errors.New("user not found")

// OAuthProfile is the subset of the identity provider's user we persist
type OAuthProfile struct {
	Provider       string
	ProviderUserID string
	Email          string
	Name           string
	AvatarURL      string
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// FindByID loads an active or inactive user by primary key
func (s *UserService) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpsertOAuthUser finds the user linked to the provider account or creates it.
// An existing user with the same email gets the provider linked. Profile fields are refreshed on every sign-in.
func (s *UserService) UpsertOAuthUser(profile OAuthProfile) (*models.User, bool, error) {
	if profile.ProviderUserID == "" {
		return nil, false, fmt.Errorf("provider user id is empty")
	}

	var user models.User
	isNew := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var link models.OAuthProvider
		err := tx.Where("provider = ? AND provider_user_id = ?", profile.Provider, profile.ProviderUserID).
			Preload("User").
			First(&link).Error

		switch {
		case err == nil:
			user = link.User
			return refreshProfile(tx, &user, profile)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		// Link to an existing account with the same email
		err = tx.Where("email = ?", profile.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{
				Email:     profile.Email,
				Name:      profile.Name,
				AvatarURL: profile.AvatarURL,
				IsActive:  true,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			isNew = true
		} else if err != nil {
			return err
		}

		return tx.Create(&models.OAuthProvider{
			UserID:         user.ID,
			Provider:       profile.Provider,
			ProviderUserID: profile.ProviderUserID,
		}).Error
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert oauth user: %w", err)
	}

	return &user, isNew, nil
}

func refreshProfile(tx *gorm.DB, user *models.User, profile OAuthProfile) error {
	if user.Name == profile.Name && user.AvatarURL == profile.AvatarURL {
		return nil
	}
	user.Name = profile.Name
	user.AvatarURL = profile.AvatarURL
	return tx.Model(user).Updates(map[string]interface{}{
		"name":       profile.Name,
		"avatar_url": profile.AvatarURL,
	}).Error
}
