package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alkmanistik/alkify-music-api/internal/dto"
	"github.com/alkmanistik/alkify-music-api/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.users.GetAllUsers()
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, users)
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	user, err := h.users.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, user)
}

// GetByEmail resolves an account by address. Callers may look up
// their own address; admins may look up anyone's.
func (h *UserHandler) GetByEmail(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	email := c.Param("email")
	if email == "" {
		respondBadRequest(c, "Email is required")
		return
	}
	if email != caller.Email && !caller.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{
			"status":  "error",
			"message": "Can't look up another user's email",
		})
		return
	}
	user, err := h.users.GetByEmail(email)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, user)
}

// Update modifies the account. Users may update themselves; admins
// may update anyone.
func (h *UserHandler) Update(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req dto.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	user, err := h.users.UpdateUser(id, caller, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, user)
}

// Delete removes the account and all content it manages. Users may
// delete themselves; admins may delete anyone.
func (h *UserHandler) Delete(c *gin.Context) {
	caller, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := h.users.DeleteUser(id, caller); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GrantAdmin promotes the user to admin. Admin only.
func (h *UserHandler) GrantAdmin(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}
	user, err := h.users.AddAdminRole(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, user)
}
