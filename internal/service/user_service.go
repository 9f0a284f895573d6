package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blogicum/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles registration, authentication and profile edits.
type UserService struct {
	db   *gorm.DB
	cost int
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb, cost: bcrypt.DefaultCost}
}

// WithPasswordCost returns a copy hashing passwords with the given bcrypt cost.
func (s *UserService) WithPasswordCost(cost int) *UserService {
	clone := *s
	clone.cost = cost
	return &clone
}

// Register creates a new account.
func (s *UserService) Register(input RegistrationInput) (*db.User, error) {
	input.normalize()
	verrs := validateStruct(&input)
	if _, taken := verrs["username"]; !taken && input.Username != "" {
		exists, err := s.usernameExists(input.Username, 0)
		if err != nil {
			return nil, err
		}
		if exists {
			verrs.Add("username", "A user with that username already exists.")
		}
	}
	if err := verrs.orNil(); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password1), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := db.User{Username: input.Username, Password: string(hashed)}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate checks a username/password pair.
func (s *UserService) Authenticate(username, password string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetByID returns a user by primary key.
func (s *UserService) GetByID(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// GetByUsername returns a user by username.
func (s *UserService) GetByUsername(username string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// List returns all users ordered by username.
func (s *UserService) List() ([]db.User, error) {
	var users []db.User
	if err := s.db.Order("username asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateProfile applies the profile form to user id.
func (s *UserService) UpdateProfile(id uint, input ProfileInput) (*db.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	input.normalize()
	verrs := validateStruct(&input)
	if _, invalid := verrs["username"]; !invalid {
		exists, err := s.usernameExists(input.Username, id)
		if err != nil {
			return nil, err
		}
		if exists {
			verrs.Add("username", "A user with that username already exists.")
		}
	}
	if err := verrs.orNil(); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"first_name": input.FirstName,
		"last_name":  input.LastName,
		"username":   input.Username,
		"email":      input.Email,
	}
	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a user along with their posts and every comment that
// would otherwise be orphaned.
func (s *UserService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		postIDs := tx.Model(&db.Post{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("author_id = ? OR post_id IN (?)", id, postIDs).Delete(&db.Comment{}).Error; err != nil {
			return fmt.Errorf("delete user comments: %w", err)
		}
		if err := tx.Where("author_id = ?", id).Delete(&db.Post{}).Error; err != nil {
			return fmt.Errorf("delete user posts: %w", err)
		}
		result := tx.Delete(&db.User{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (s *UserService) usernameExists(username string, excludeID uint) (bool, error) {
	query := s.db.Model(&db.User{}).Where("username = ?", username)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return count > 0, nil
}
