package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Роли пользователей в системе
const (
	RoleOwner  = "owner"  // владелец платформы, видит все клубы
	RoleAdmin  = "admin"  // администратор клуба
	RoleCoach  = "coach"  // тренер
	RoleParent = "parent" // родитель (семейный аккаунт)
)

// IsValidRole проверяет, что роль входит в закрытый набор
func IsValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleCoach, RoleParent:
		return true
	}
	return false
}

// User представляет пользователя в системе
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password  string `gorm:"size:100;not null;default:''" json:"-"`
	FirstName string `gorm:"size:100;not null;default:''" json:"first_name"`
	LastName  string `gorm:"size:100;not null;default:''" json:"last_name"`
	Phone     string `gorm:"size:30;not null;default:''" json:"phone"`
	Role      string `gorm:"size:20;not null;default:'parent'" json:"role"`
	ClubID    *uint  `gorm:"index" json:"club_id,omitempty"` // nil для роли owner

	// SetupCompletedAt — момент завершения bootstrap-процесса (пароль установлен
	// по setup-токену). Выполняет роль маркера "профиль подтвержден": повторная
	// попытка пройти настройку по любому токену отклоняется.
	SetupCompletedAt *time.Time `gorm:"type:timestamp" json:"setup_completed_at,omitempty"`
	EmailVerifiedAt  *time.Time `gorm:"type:timestamp" json:"email_verified_at,omitempty"`
	PhoneVerifiedAt  *time.Time `gorm:"type:timestamp" json:"phone_verified_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// IsSetupCompleted возвращает true, если пользователь уже установил пароль по приглашению
func (u *User) IsSetupCompleted() bool {
	return u.SetupCompletedAt != nil
}

// IsStaff возвращает true для ролей с доступом к админ-порталу клуба
func (u *User) IsStaff() bool {
	return u.Role == RoleOwner || u.Role == RoleAdmin || u.Role == RoleCoach
}

// BeforeSave хеширует пароль перед сохранением, только если он не является bcrypt-хешем
func (u *User) BeforeSave(tx *gorm.DB) error {
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] Ошибка при хешировании пароля для email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// NormalizeEmail приводит email к каноничному виду для поиска и уникальности
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
