package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	SetupToken SetupTokenConfig `mapstructure:"setup_token"`
	OTP        OTPConfig        `mapstructure:"otp"`
	Lockout    LockoutConfig
	Email      EmailConfig
	Payments   PaymentsConfig
	Portal     PortalConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Используется для всех режимов.
	// Для 'single', если не пуст, используется первый адрес из списка.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single' (для обратной совместимости).
	// Используется, если Mode="single" и Addrs пустой.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	// MaxRetries: Максимальное количество попыток переподключения (-1 - бесконечно). По умолчанию 0 (без ретраев).
	MaxRetries int `mapstructure:"max_retries"`

	// MinRetryBackoff: Минимальный интервал между попытками (в миллисекундах). По умолчанию 8ms.
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`

	// MaxRetryBackoff: Максимальный интервал между попытками (в миллисекундах). По умолчанию 512ms.
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// JWTConfig содержит настройки access-токенов
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpirationHrs int    `mapstructure:"expirationHrs"`
}

// SetupTokenConfig содержит настройки одноразовых токенов установки пароля
type SetupTokenConfig struct {
	// Secret: Ключ подписи HS256, минимум 32 байта. Отдельный от JWT.Secret,
	// чтобы setup-токен нельзя было предъявить как access-токен.
	Secret string `mapstructure:"secret"`

	// TTLHours: Время жизни токена в часах. По умолчанию 72.
	TTLHours int `mapstructure:"ttl_hours"`
}

// OTPConfig содержит настройки одноразовых кодов
type OTPConfig struct {
	// TTL: Время жизни кода. По умолчанию 15m.
	TTL time.Duration `mapstructure:"ttl"`

	// ResendCooldown: Минимальный интервал между повторными отправками. По умолчанию 60s.
	ResendCooldown time.Duration `mapstructure:"resend_cooldown"`

	// MaxAttempts: Количество попыток ввода на один код. По умолчанию 5.
	MaxAttempts int `mapstructure:"max_attempts"`

	// Pepper: Серверный секрет, подмешиваемый в хеш кода. Хранится вне БД.
	Pepper string `mapstructure:"pepper"`
}

// LockoutConfig содержит настройки блокировки по неудачным попыткам
type LockoutConfig struct {
	// Threshold: Количество неудач в окне до блокировки. По умолчанию 10.
	Threshold int `mapstructure:"threshold"`

	// Window: Скользящее окно подсчета неудач. По умолчанию 1h.
	Window time.Duration `mapstructure:"window"`
}

// EmailConfig содержит настройки отправки почты через Resend
type EmailConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	From    string `mapstructure:"from"`
}

// PaymentsConfig содержит настройки платежного провайдера
type PaymentsConfig struct {
	// Provider: "noop" для разработки. Реальный провайдер подключается через
	// реализацию CheckoutProvider.
	Provider string `mapstructure:"provider"`
	BaseURL  string `mapstructure:"base_url"`
}

// PortalConfig содержит настройки клиентского портала
type PortalConfig struct {
	// BaseURL: Базовый адрес фронтенда, используется в ссылках писем.
	BaseURL string `mapstructure:"base_url"`

	// TwoFactorForStaff: Требовать подтверждение кодом при входе персонала клуба.
	TwoFactorForStaff bool `mapstructure:"two_factor_for_staff"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load загружает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	// 1. Значения по умолчанию
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("jwt.expirationHrs", 24)
	vip.SetDefault("setup_token.ttl_hours", 72)
	vip.SetDefault("otp.ttl", 15*time.Minute)
	vip.SetDefault("otp.resend_cooldown", 60*time.Second)
	vip.SetDefault("otp.max_attempts", 5)
	vip.SetDefault("lockout.threshold", 10)
	vip.SetDefault("lockout.window", time.Hour)
	vip.SetDefault("payments.provider", "noop")
	vip.SetDefault("portal.two_factor_for_staff", true)

	// 2. Привязываем переменные окружения ЯВНО
	// Привязка для секции Database
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	// Привязка для секции Redis
	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS") // Для массива строк
	vip.BindEnv("redis.addr", "REDIS_ADDR")   // Для одиночной строки
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	// Привязка для токенов
	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.expirationHrs", "JWT_EXPIRATIONHRS")
	vip.BindEnv("setup_token.secret", "SETUP_TOKEN_SECRET")
	vip.BindEnv("setup_token.ttl_hours", "SETUP_TOKEN_TTL_HOURS")

	// Привязка для OTP и блокировок
	vip.BindEnv("otp.ttl", "OTP_TTL")
	vip.BindEnv("otp.resend_cooldown", "OTP_RESEND_COOLDOWN")
	vip.BindEnv("otp.max_attempts", "OTP_MAX_ATTEMPTS")
	vip.BindEnv("otp.pepper", "OTP_PEPPER")
	vip.BindEnv("lockout.threshold", "LOCKOUT_THRESHOLD")
	vip.BindEnv("lockout.window", "LOCKOUT_WINDOW")

	// Привязка для почты и платежей
	vip.BindEnv("email.enabled", "EMAIL_ENABLED")
	vip.BindEnv("email.api_key", "RESEND_API_KEY")
	vip.BindEnv("email.from", "EMAIL_FROM")
	vip.BindEnv("payments.provider", "PAYMENTS_PROVIDER")
	vip.BindEnv("payments.base_url", "PAYMENTS_BASE_URL")

	// Привязка для портала
	vip.BindEnv("portal.base_url", "PORTAL_BASE_URL")
	vip.BindEnv("portal.two_factor_for_staff", "PORTAL_TWO_FACTOR_FOR_STAFF")

	// Привязка для Server
	vip.BindEnv("server.port", "SERVER_PORT")

	// 3. Устанавливаем путь к файлу конфигурации
	if configPath != "" {
		vip.SetConfigFile(configPath)
		// 4. Пытаемся прочитать файл конфигурации (не страшно, если его нет, т.к. есть BindEnv)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	// 5. Анмаршалим конфигурацию (Viper объединит значения из файла и привязанных env vars)
	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Логирование конфигурации (только в debug режиме)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Port: %s", cfg.Database.Port)
		log.Printf("Database User: %s", cfg.Database.User)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Database SSLMode: %s", cfg.Database.SSLMode)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("Redis Mode: %s", cfg.Redis.Mode)
		log.Printf("JWT Secret Set: %t", cfg.JWT.Secret != "")
		log.Printf("Setup Token Secret Set: %t", cfg.SetupToken.Secret != "")
		log.Printf("OTP Pepper Set: %t", cfg.OTP.Pepper != "")
		log.Printf("Email Enabled: %t", cfg.Email.Enabled)
		log.Printf("Payments Provider: %s", cfg.Payments.Provider)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("-----------------------------------------")
	}

	// 7. Проверка обязательных параметров
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required in config (check JWT_SECRET env var)")
	}
	if len(cfg.SetupToken.Secret) < 32 {
		return nil, fmt.Errorf("setup token secret must be at least 32 bytes (check SETUP_TOKEN_SECRET env var)")
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if os.Getenv("GIN_MODE") == "release" {
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("database password is required in production mode (check DATABASE_PASSWORD env var)")
		}
		if cfg.OTP.Pepper == "" {
			return nil, fmt.Errorf("OTP pepper is required in production mode (check OTP_PEPPER env var)")
		}
		if cfg.Email.Enabled && cfg.Email.APIKey == "" {
			return nil, fmt.Errorf("email is enabled but API key is missing (check RESEND_API_KEY env var)")
		}
	}

	return &cfg, nil
}
