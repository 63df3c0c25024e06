package entity

import "time"

// Athlete представляет атлета (ребенка), привязанного к семейному аккаунту родителя
type Athlete struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClubID    uint      `gorm:"not null;index" json:"club_id"`
	ParentID  uint      `gorm:"not null;index" json:"parent_id"`
	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100;not null" json:"last_name"`
	BirthDate time.Time `gorm:"type:date;not null" json:"birth_date"`
	Notes     string    `gorm:"type:text;not null;default:''" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Athlete) TableName() string {
	return "athletes"
}

// AgeAt возвращает полный возраст атлета на указанную дату
func (a *Athlete) AgeAt(at time.Time) int {
	age := at.Year() - a.BirthDate.Year()
	if at.Month() < a.BirthDate.Month() ||
		(at.Month() == a.BirthDate.Month() && at.Day() < a.BirthDate.Day()) {
		age--
	}
	return age
}
