package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "github.com/Dhruvraj1821/chatify/internal/infrastructure/cache/port"
	identity "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/domain"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/usecase"
	repoAdapter "github.com/Dhruvraj1821/chatify/internal/pkg/identity/persistence/repository/adapter"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/presentation/middleware"
)

// UpdateProfileController mutates display name and profile picture.
type UpdateProfileController struct {
	UC *usecase.UpdateProfileUseCase
}

func NewUpdateProfileController(pool *pgxpool.Pool, cache cacheport.Cache) *UpdateProfileController {
	repo := repoAdapter.NewPgUserRepository(pool)
	return &UpdateProfileController{UC: usecase.NewUpdateProfileUseCase(repo, cache)}
}

type updateProfileRequest struct {
	FullName   *string `json:"full_name"`
	ProfilePic *string `json:"profile_pic"`
}

func (h *UpdateProfileController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		if u == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		updated, err := h.UC.Execute(ctx, usecase.UpdateProfileInput{
			UserID:     u.ID,
			FullName:   req.FullName,
			ProfilePic: req.ProfilePic,
		})
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrUserNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			case errors.Is(err, identity.ErrMissingFullName):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, userResponse(updated))
	}
}
