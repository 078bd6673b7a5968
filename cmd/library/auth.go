package main

import (
	"net/http"

	"library_rental/pkg/accounts"
	"library_rental/pkg/models"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Login    string `json:"login" form:"login"`
	Password string `json:"password" form:"password"`
}

func login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, err := users.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondToken(c, http.StatusOK, user)
}

func register(c *gin.Context) {
	var in accounts.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, err := users.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondToken(c, http.StatusCreated, user)
}

// logout has nothing to revoke: tokens expire on their own and the client
// drops its copy.
func logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func respondToken(c *gin.Context, status int, user *models.User) {
	id := users.Identity(user)
	token, err := issuer.Issue(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"id_user":      user.ID,
		"role":         id.Role.String(),
	})
}
