package entity

import "time"

// Club представляет клуб (тенант). Все доменные записи привязаны к клубу.
type Club struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	Slug      string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	City      string    `gorm:"size:100;not null;default:''" json:"city"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Club) TableName() string {
	return "clubs"
}
