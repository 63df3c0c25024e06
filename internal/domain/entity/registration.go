package entity

import "time"

// Статусы записи атлета в программу
const (
	RegistrationPending   = "pending"
	RegistrationConfirmed = "confirmed"
	RegistrationCancelled = "cancelled"
)

// Статусы оплаты записи
const (
	PaymentUnpaid     = "unpaid"
	PaymentProcessing = "processing"
	PaymentPaid       = "paid"
)

// Registration представляет запись атлета в тренировочную программу
type Registration struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ClubID        uint   `gorm:"not null;index" json:"club_id"`
	// Частичный уникальный индекс: не более одной живой записи на пару
	// (program_id, athlete_id), отмененные записи не блокируют повторную
	ProgramID     uint   `gorm:"not null;index:idx_registrations_program_athlete,unique,where:status <> 'cancelled'" json:"program_id"`
	AthleteID     uint   `gorm:"not null;index:idx_registrations_program_athlete,unique,where:status <> 'cancelled'" json:"athlete_id"`
	ParentID      uint   `gorm:"not null;index" json:"parent_id"`
	Status        string `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaymentStatus string `gorm:"size:20;not null;default:'unpaid'" json:"payment_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Registration) TableName() string {
	return "registrations"
}

// IsActive возвращает true, если запись занимает место в программе
func (r *Registration) IsActive() bool {
	return r.Status != RegistrationCancelled
}
