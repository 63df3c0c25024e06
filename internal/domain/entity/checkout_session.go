package entity

import "time"

// Статусы платежной сессии
const (
	CheckoutOpen      = "open"
	CheckoutCompleted = "completed"
	CheckoutExpired   = "expired"
)

// CheckoutSession представляет сессию оплаты у внешнего платежного провайдера.
// Хранится только ссылка на сессию и redirect URL; протокол провайдера вне зоны
// ответственности этого сервиса.
type CheckoutSession struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ClubID         uint   `gorm:"not null;index" json:"club_id"`
	RegistrationID uint   `gorm:"not null;index" json:"registration_id"`
	ProviderRef    string `gorm:"size:255;not null;uniqueIndex" json:"provider_ref"`
	RedirectURL    string `gorm:"size:1024;not null" json:"redirect_url"`
	AmountCents    int64  `gorm:"not null" json:"amount_cents"`
	Currency       string `gorm:"size:3;not null" json:"currency"`
	Status         string `gorm:"size:20;not null;default:'open'" json:"status"`

	CompletedAt *time.Time `gorm:"type:timestamp" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (CheckoutSession) TableName() string {
	return "checkout_sessions"
}
