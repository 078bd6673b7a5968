package main

import (
	"net/http"

	"library_rental/pkg/accounts"
	"library_rental/pkg/models"

	"github.com/gin-gonic/gin"
)

func userItem(u *models.User) gin.H {
	return gin.H{
		"id_user":    u.ID,
		"login":      u.Login,
		"name":       u.FirstName(),
		"lastName":   u.LastName(),
		"middleName": u.MiddleName(),
		"role_id":    u.RoleID,
		"role_name":  u.Role.Name,
	}
}

func manageUsers(c *gin.Context) {
	rows, err := users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}

func getEditUser(c *gin.Context) {
	actor, _ := currentIdentity(c)

	id, err := idFrom(c.Query("id_user"), "id_user")
	if err != nil {
		respondError(c, err)
		return
	}
	if !actor.Role.CanManageUsers() && actor.UserID != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only view your own account"})
		return
	}
	user, err := users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userItem(user))
}

func editUser(c *gin.Context) {
	actor, _ := currentIdentity(c)

	id, err := idFrom(c.Query("id_user"), "id_user")
	if err != nil {
		respondError(c, err)
		return
	}
	var in accounts.UpdateInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, err := users.Update(c.Request.Context(), actor, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userItem(user))
}

func deleteUser(c *gin.Context) {
	id, err := idFrom(c.Param("userId"), "userId")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
