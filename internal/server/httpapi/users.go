package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/dmitrijs2005/storefront/internal/server/validation"
	"github.com/gin-gonic/gin"
)

type registerResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type loginResponse struct {
	*models.User
	AccessToken string `json:"accessToken"`
}

// register ignores isAdmin in the body; administrators are created with
// the operator CLI.
func (h *Handler) register(c *gin.Context) {
	p := payload[validation.UserPayload](c)

	u, err := h.users.Register(c.Request.Context(), p.Username, p.Email, p.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			c.String(http.StatusBadRequest, "user already registered")
			return
		}
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, registerResponse{UserID: u.ID, Username: u.Username, Email: u.Email})
}

func (h *Handler) login(c *gin.Context) {
	p := payload[validation.LoginPayload](c)

	sess, err := h.users.Login(c.Request.Context(), p.Email, p.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{User: sess.User, AccessToken: sess.AccessToken})
}

func (h *Handler) updateUser(c *gin.Context) {
	p := payload[validation.UserUpdatePayload](c)
	id := mustIdentity(c)

	u, err := h.users.Update(c.Request.Context(), c.Param("id"), services.UserUpdate{
		Username: p.Username,
		Email:    p.Email,
		Password: p.Password,
		IsAdmin:  p.IsAdmin,
	}, id.IsAdmin)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user has been deleted"})
}

func (h *Handler) getUser(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context(), c.Query("new") == "true")
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) userStats(c *gin.Context) {
	stats, err := h.users.Stats(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
