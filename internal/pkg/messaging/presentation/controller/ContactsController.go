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
)

// ContactsController lists every other account the user could start a
// conversation with. Lives under the messages routes like the rest of the
// contact surface.
type ContactsController struct {
	UC *identityUsecase.ListContactsUseCase
}

func NewContactsController(pool *pgxpool.Pool) *ContactsController {
	repo := identityRepo.NewPgUserRepository(pool)
	return &ContactsController{UC: identityUsecase.NewListContactsUseCase(repo)}
}

func (h *ContactsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		if u == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		users, err := h.UC.Execute(ctx, u.ID)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, identityUsecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(users))
		for i := range users {
			out = append(out, gin.H{
				"id":          users[i].ID,
				"email":       users[i].Email,
				"full_name":   users[i].FullName,
				"profile_pic": users[i].ProfilePic,
			})
		}
		c.JSON(http.StatusOK, out)
	}
}
