package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	identityUsecase "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/usecase"
	identityRepo "github.com/Dhruvraj1821/chatify/internal/pkg/identity/persistence/repository/adapter"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/presentation/middleware"
	"github.com/Dhruvraj1821/chatify/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/Dhruvraj1821/chatify/internal/pkg/messaging/persistence/repository/adapter"
)

// ChatPartnersController lists the profiles the user already has messages with.
type ChatPartnersController struct {
	Partners *usecase.ListChatPartnersUseCase
	Users    *identityUsecase.GetUserUseCase
}

func NewChatPartnersController(pool *pgxpool.Pool) *ChatPartnersController {
	return &ChatPartnersController{
		Partners: usecase.NewListChatPartnersUseCase(repoAdapter.NewPgMessageRepository(pool)),
		Users:    identityUsecase.NewGetUserUseCase(identityRepo.NewPgUserRepository(pool)),
	}
}

func (h *ChatPartnersController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		if u == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		ids, err := h.Partners.Execute(ctx, u.ID)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(ids))
		for _, id := range ids {
			partner, err := h.Users.Execute(ctx, id)
			if err != nil {
				// A deleted account still referenced by old messages is skipped.
				continue
			}
			out = append(out, gin.H{
				"id":          partner.ID,
				"email":       partner.Email,
				"full_name":   partner.FullName,
				"profile_pic": partner.ProfilePic,
			})
		}
		c.JSON(http.StatusOK, out)
	}
}
