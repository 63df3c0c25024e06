package entity

import "time"

// TokenConsumption records a setup token that has been spent. The primary key
// on JTI is the serialization point for single-use semantics: the insert either
// wins or reports a conflict, there is no check-then-insert step.
type TokenConsumption struct {
	JTI        string    `gorm:"primaryKey;size:36" json:"jti"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	TokenType  string    `gorm:"size:30;not null" json:"token_type"`
	ConsumedAt time.Time `gorm:"not null" json:"consumed_at"`
}

func (TokenConsumption) TableName() string {
	return "token_consumptions"
}
