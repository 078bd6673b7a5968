package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"library_rental/pkg/auth"
	"library_rental/pkg/errs"
	"library_rental/pkg/models"

	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	roles auth.RoleIDs
	now   func() time.Time
}

func New(db *gorm.DB, roles auth.RoleIDs) *Service {
	return &Service{db: db, roles: roles, now: time.Now}
}

type RegisterInput struct {
	Login           string `json:"login" form:"login"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
	FirstName       string `json:"name" form:"name"`
	LastName        string `json:"lastName" form:"lastName"`
	MiddleName      string `json:"middleName" form:"middleName"`
}

type UpdateInput struct {
	Login      string `json:"login" form:"login"`
	FirstName  string `json:"name" form:"name"`
	LastName   string `json:"lastName" form:"lastName"`
	MiddleName string `json:"middleName" form:"middleName"`
	RoleID     *uint  `json:"role_id" form:"role_id"`
}

type UserRow struct {
	ID       uint   `json:"id_user"`
	Login    string `json:"login"`
	FullName string `json:"fio"`
	RoleName string `json:"role_name"`
}

// Register creates a patron account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Login = strings.TrimSpace(in.Login)
	switch {
	case in.Login == "" || in.Password == "":
		return nil, errs.Invalid("login and password are required")
	case strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "":
		return nil, errs.Invalid("first and last name are required")
	case in.Password != in.ConfirmPassword:
		return nil, errs.Invalid("passwords do not match")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		FullName:     models.JoinFullName(strings.TrimSpace(in.LastName), strings.TrimSpace(in.FirstName), strings.TrimSpace(in.MiddleName)),
		Login:        in.Login,
		PasswordHash: hash,
		RoleID:       s.roles.Patron,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.ErrLoginTaken
		}
		return nil, errs.Storage("create user", err)
	}
	return &user, nil
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	if login == "" || password == "" {
		return nil, errs.Invalid("login and password are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("login = ?", login).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errs.Storage("find user", err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, errs.ErrInvalidCredentials
	}
	return &user, nil
}

func (s *Service) Identity(u *models.User) auth.Identity {
	return auth.Identity{UserID: u.ID, Role: s.roles.Resolve(u.RoleID)}
}

func (s *Service) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Role").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("user")
	}
	if err != nil {
		return nil, errs.Storage("get user", err)
	}
	return &user, nil
}

func (s *Service) List(ctx context.Context) ([]UserRow, error) {
	rows := []UserRow{}
	err := s.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.login, users.full_name, roles.name AS role_name").
		Joins("LEFT JOIN roles ON roles.id = users.role_id").
		Order("users.id").
		Scan(&rows).Error
	if err != nil {
		return nil, errs.Storage("list users", err)
	}
	return rows, nil
}

// Update edits login and name. Only actors allowed to assign roles may
// change RoleID; for everybody else it is ignored.
func (s *Service) Update(ctx context.Context, actor auth.Identity, id uint, in UpdateInput) (*models.User, error) {
	if !actor.Role.CanManageUsers() && actor.UserID != id {
		return nil, errs.ErrForbidden
	}
	in.Login = strings.TrimSpace(in.Login)
	if in.Login == "" || strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, errs.Invalid("login, first and last name are required")
	}

	updates := map[string]interface{}{
		"login":     in.Login,
		"full_name": models.JoinFullName(strings.TrimSpace(in.LastName), strings.TrimSpace(in.FirstName), strings.TrimSpace(in.MiddleName)),
	}
	if in.RoleID != nil && actor.Role.CanAssignRoles() {
		if !s.roles.Known(*in.RoleID) {
			return nil, errs.Invalid("unknown role %d", *in.RoleID)
		}
		updates["role_id"] = *in.RoleID
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, errs.ErrLoginTaken
		}
		return nil, errs.Storage("update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errs.NotFound("user")
	}
	return s.Get(ctx, id)
}

// Delete removes the user and the user's active rentals. Rental history
// rows are closed and kept for statistics.
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RentHistory{}).
			Where("user_id = ? AND closed_at IS NULL", id).
			Updates(map[string]interface{}{"closed_at": s.now(), "close_reason": models.CloseRemoved}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Rent{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("user")
		}
		return nil
	})
	return errs.Storage("delete user", err)
}
