package repository

import "github.com/yourusername/skiclub-api/internal/domain/entity"

// RegistrationRepository определяет методы для работы с записями в программы
type RegistrationRepository interface {
	// CreateWithCapacityCheck вставляет запись, если число активных записей
	// программы меньше ее вместимости; проверка и вставка выполняются в одной
	// транзакции с блокировкой строки программы.
	CreateWithCapacityCheck(reg *entity.Registration, capacity int) error

	GetByID(id uint) (*entity.Registration, error)
	ListByProgram(programID uint) ([]entity.Registration, error)
	ListByParent(parentID uint) ([]entity.Registration, error)
	CountActiveByProgram(programID uint) (int64, error)
	UpdateStatus(id uint, status string) error
	UpdatePaymentStatus(id uint, paymentStatus string) error
}

// CheckoutSessionRepository определяет методы для работы с платежными сессиями
type CheckoutSessionRepository interface {
	Create(session *entity.CheckoutSession) error
	GetByProviderRef(providerRef string) (*entity.CheckoutSession, error)
	// MarkCompleted идемпотентно завершает сессию: повторный вызов не изменяет строку
	// и возвращает false.
	MarkCompleted(id uint) (bool, error)
}
