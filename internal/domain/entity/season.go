package entity

import "time"

// Season представляет сезон клуба (например, "Зима 2026/27")
type Season struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClubID    uint      `gorm:"not null;index" json:"club_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	StartsOn  time.Time `gorm:"type:date;not null" json:"starts_on"`
	EndsOn    time.Time `gorm:"type:date;not null" json:"ends_on"`
	IsActive  bool      `gorm:"not null;default:false;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Season) TableName() string {
	return "seasons"
}
