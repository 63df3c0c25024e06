package repository

import "github.com/yourusername/skiclub-api/internal/domain/entity"

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	UpdateProfile(userID uint, updates map[string]interface{}) error
	UpdatePassword(userID uint, hashedPassword string) error
	ListByClub(clubID uint, limit, offset int) ([]entity.User, error)
}
