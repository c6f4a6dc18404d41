package services

import (
	"context"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/salita_api/dto"
	"github.com/lac-hong-legacy/salita_api/model"
	"github.com/lac-hong-legacy/salita_api/shared"
	log "github.com/sirupsen/logrus"
)

const AUTH_MIDDLEWARE_SVC = "auth"

type TokenVerifier interface {
	ExtractTokenFromHeader(authHeader string) (string, error)
	VerifyJWTToken(token string) (*CustomClaims, error)
}

type IdentityEnsurer interface {
	EnsureUser(ctx context.Context, identity dto.Identity) (*model.User, error)
}

// AuthMiddleware turns a bearer token into the caller's user id.
type AuthMiddleware struct {
	appContext.DefaultService

	tokens TokenVerifier
	users  IdentityEnsurer
}

func NewAuthMiddleware(tokens TokenVerifier, users IdentityEnsurer) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

func (svc AuthMiddleware) Id() string {
	return AUTH_MIDDLEWARE_SVC
}

func (svc *AuthMiddleware) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthMiddleware) Start() error {
	svc.tokens = svc.Service(JWT_SVC).(*JWTService)
	svc.users = svc.Service(USER_SVC).(*UserService)
	return nil
}

func (svc *AuthMiddleware) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := svc.tokens.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return shared.NewUnauthorizedError(err, "Unauthorized")
		}

		claims, err := svc.tokens.VerifyJWTToken(token)
		if err != nil {
			return shared.NewUnauthorizedError(err, "Invalid JWT token")
		}

		identity := claims.Identity()
		user, err := svc.users.EnsureUser(c.UserContext(), identity)
		if err != nil {
			log.WithFields(log.Fields{
				"user_id": identity.UserID,
				"error":   err.Error(),
			}).Error("Failed to ensure user")
			return err
		}

		c.Locals(shared.UserID, user.ID)
		c.Locals(shared.UserEmail, user.Email)
		return c.Next()
	}
}
