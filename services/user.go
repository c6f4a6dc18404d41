package services

import (
	"context"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/salita_api/dto"
	"github.com/lac-hong-legacy/salita_api/model"
	"github.com/lac-hong-legacy/salita_api/shared"
	log "github.com/sirupsen/logrus"
)

const USER_SVC = "user_svc"

type UserService struct {
	appContext.DefaultService

	users   UserStore
	archive TranscriptArchive
}

func NewUserService(users UserStore, archive TranscriptArchive) *UserService {
	return &UserService{users: users, archive: archive}
}

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *UserService) Start() error {
	svc.users = svc.Service(DATABASE_SVC).(Database).Users()
	if minioSvc, ok := svc.Service(MINIO_SVC).(*MinIOService); ok {
		svc.archive = minioSvc
	}
	return nil
}

// EnsureUser returns the stored user for identity, creating it with default
// preferences on first sight.
func (svc *UserService) EnsureUser(ctx context.Context, identity dto.Identity) (*model.User, error) {
	if identity.UserID == "" {
		return nil, shared.NewUnauthorizedError(nil, "Invalid user ID in token")
	}

	user, err := svc.users.GetUser(ctx, identity.UserID)
	if err == nil {
		return user, nil
	}
	if !shared.IsKind(err, shared.KindNotFound) {
		return nil, err
	}

	user, err = svc.users.CreateUser(ctx, &model.User{
		ID:          identity.UserID,
		Name:        identity.Name,
		Email:       identity.Email,
		Image:       identity.Image,
		Preferences: model.DefaultPreferences(),
	})
	if err != nil {
		return nil, err
	}

	log.WithField("user_id", user.ID).Info("User created from identity")
	return user, nil
}

// ==================== USER PROFILE METHODS ====================

func (svc *UserService) GetProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	user, err := svc.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserProfileResponse(user), nil
}

func (svc *UserService) UpdatePreferences(ctx context.Context, userID string, req dto.UpdatePreferencesRequest) (*dto.UserProfileResponse, error) {
	user, err := svc.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := svc.users.UpdatePreferences(ctx, userID, req.Apply(user.Preferences))
	if err != nil {
		return nil, err
	}
	return dto.NewUserProfileResponse(updated), nil
}

// DeleteAccount removes the user and everything they own. Archived
// transcripts are cleaned up after the database commit.
func (svc *UserService) DeleteAccount(ctx context.Context, userID string) error {
	if err := svc.users.DeleteAccount(ctx, userID); err != nil {
		return err
	}

	if svc.archive != nil {
		if err := svc.archive.RemoveUserTranscripts(ctx, userID); err != nil {
			log.WithFields(log.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Warn("Failed to remove archived transcripts")
		}
	}

	log.WithField("user_id", userID).Info("Account deleted")
	return nil
}
