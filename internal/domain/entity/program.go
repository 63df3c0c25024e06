package entity

import "time"

// Дисциплины программ
const (
	DisciplineAlpine    = "alpine"
	DisciplineNordic    = "nordic"
	DisciplineFreestyle = "freestyle"
	DisciplineSnowboard = "snowboard"
)

// IsValidDiscipline проверяет, что дисциплина входит в закрытый набор
func IsValidDiscipline(d string) bool {
	switch d {
	case DisciplineAlpine, DisciplineNordic, DisciplineFreestyle, DisciplineSnowboard:
		return true
	}
	return false
}

// Program представляет тренировочную программу в рамках сезона
type Program struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ClubID      uint   `gorm:"not null;index" json:"club_id"`
	SeasonID    uint   `gorm:"not null;index" json:"season_id"`
	Name        string `gorm:"size:150;not null" json:"name"`
	Discipline  string `gorm:"size:30;not null" json:"discipline"`
	Description string `gorm:"type:text;not null;default:''" json:"description"`
	MinAge      int    `gorm:"not null;default:5" json:"min_age"`
	MaxAge      int    `gorm:"not null;default:18" json:"max_age"`
	Capacity    int    `gorm:"not null;default:20" json:"capacity"`
	PriceCents  int64  `gorm:"not null;default:0" json:"price_cents"`
	Currency    string `gorm:"size:3;not null;default:'USD'" json:"currency"`
	CoachID     *uint  `gorm:"index" json:"coach_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Program) TableName() string {
	return "programs"
}

// AgeEligible проверяет попадание возраста атлета в диапазон программы
func (p *Program) AgeEligible(age int) bool {
	return age >= p.MinAge && age <= p.MaxAge
}
