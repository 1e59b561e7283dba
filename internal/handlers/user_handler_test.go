package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "spenza/internal/errors"
	"spenza/internal/models"
	"spenza/internal/pagination"
	"spenza/internal/services"
)

func setupUserRouter(svc services.UserServicer) *gin.Engine {
	r := gin.New()
	h := NewUserHandler(svc, &mockAuditService{})
	auth := injectUser(1, models.RoleAdmin)
	r.GET("/users", auth, h.ListUsers)
	r.PUT("/users/:id/role", auth, h.UpdateRole)
	r.DELETE("/users/:id", auth, h.DeleteUser)
	return r
}

func TestListUsersHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockUserService{
			listUsersFn: func(page pagination.PageRequest, search string) (*pagination.PageResponse[models.User], error) {
				result := pagination.NewPageResponse([]models.User{{Name: "Alice"}}, 1, 20, 1)
				return &result, nil
			},
		}
		r := setupUserRouter(svc)

		rec := doRequest(r, http.MethodGet, "/users", nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestUpdateRoleHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotRole models.Role
		svc := &mockUserService{
			updateUserRoleFn: func(userID uint, role models.Role) (*models.User, error) {
				gotRole = role
				user := &models.User{Role: role}
				user.ID = userID
				return user, nil
			},
		}
		r := setupUserRouter(svc)

		rec := doRequest(r, http.MethodPut, "/users/5/role", gin.H{"role": "admin"})

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotRole != models.RoleAdmin {
			t.Errorf("expected role admin, got %q", gotRole)
		}
	})

	t.Run("invalid_role_value", func(t *testing.T) {
		r := setupUserRouter(&mockUserService{})

		rec := doRequest(r, http.MethodPut, "/users/5/role", gin.H{"role": "superuser"})

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestDeleteUserHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockUserService{
			deleteUserFn: func(userID uint) error { return nil },
		}
		r := setupUserRouter(svc)

		rec := doRequest(r, http.MethodDelete, "/users/5", nil)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})

	t.Run("refused_with_expenses", func(t *testing.T) {
		svc := &mockUserService{
			deleteUserFn: func(userID uint) error { return apperrors.ErrUserInUse },
		}
		r := setupUserRouter(svc)

		rec := doRequest(r, http.MethodDelete, "/users/5", nil)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "USER_IN_USE")
	})
}
