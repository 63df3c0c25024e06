package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/skiclub-api/internal/config"
	"github.com/yourusername/skiclub-api/internal/handler"
	"github.com/yourusername/skiclub-api/internal/middleware"
	pgRepo "github.com/yourusername/skiclub-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/skiclub-api/internal/repository/redis"
	"github.com/yourusername/skiclub-api/internal/service"
	"github.com/yourusername/skiclub-api/pkg/auth"
	"github.com/yourusername/skiclub-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis с использованием унифицированной конфигурации
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	clubRepo := pgRepo.NewClubRepo(db)
	seasonRepo := pgRepo.NewSeasonRepo(db)
	programRepo := pgRepo.NewProgramRepo(db)
	athleteRepo := pgRepo.NewAthleteRepo(db)
	registrationRepo := pgRepo.NewRegistrationRepo(db)
	checkoutSessionRepo := pgRepo.NewCheckoutSessionRepo(db)
	otpRepo := pgRepo.NewOTPRepo(db)
	consumptionRepo := pgRepo.NewTokenConsumptionRepo(db)

	lockoutRepo, err := redisRepo.NewLockoutRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize LockoutRepo: %v", err)
		os.Exit(1)
	}

	// Сервисы токенов: access-токены и одноразовые setup-токены подписываются
	// разными секретами
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}
	setupTokenService, err := auth.NewSetupTokenService(cfg.SetupToken.Secret)
	if err != nil {
		log.Printf("Failed to initialize SetupTokenService: %v", err)
		os.Exit(1)
	}

	// Почтовый сервис: Resend в проде, noop в разработке
	var emailService service.EmailService
	if cfg.Email.Enabled {
		emailService, err = service.NewResendEmailService(cfg.Email.APIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
	} else {
		log.Println("Email delivery disabled, using noop email service")
		emailService = &service.NoopEmailService{}
	}

	// Инициализируем сервисы
	lockoutService, err := service.NewLockoutService(lockoutRepo, cfg.Lockout.Threshold, cfg.Lockout.Window)
	if err != nil {
		log.Printf("Failed to initialize LockoutService: %v", err)
		os.Exit(1)
	}
	otpService, err := service.NewOTPService(otpRepo, lockoutService, cfg.OTP.TTL, cfg.OTP.ResendCooldown, cfg.OTP.MaxAttempts, cfg.OTP.Pepper)
	if err != nil {
		log.Printf("Failed to initialize OTPService: %v", err)
		os.Exit(1)
	}
	onboardingService, err := service.NewOnboardingService(
		userRepo,
		clubRepo,
		consumptionRepo,
		setupTokenService,
		emailService,
		time.Duration(cfg.SetupToken.TTLHours)*time.Hour,
		12,
		cfg.Portal.BaseURL,
	)
	if err != nil {
		log.Printf("Failed to initialize OnboardingService: %v", err)
		os.Exit(1)
	}
	verificationService, err := service.NewVerificationService(userRepo, otpService, emailService, 12)
	if err != nil {
		log.Printf("Failed to initialize VerificationService: %v", err)
		os.Exit(1)
	}
	authService, err := service.NewAuthService(userRepo, jwtService, otpService, emailService, cfg.Portal.TwoFactorForStaff)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	clubService, err := service.NewClubService(clubRepo)
	if err != nil {
		log.Printf("Failed to initialize ClubService: %v", err)
		os.Exit(1)
	}
	programService, err := service.NewProgramService(seasonRepo, programRepo)
	if err != nil {
		log.Printf("Failed to initialize ProgramService: %v", err)
		os.Exit(1)
	}
	registrationService, err := service.NewRegistrationService(athleteRepo, programRepo, registrationRepo)
	if err != nil {
		log.Printf("Failed to initialize RegistrationService: %v", err)
		os.Exit(1)
	}

	var checkoutProvider service.CheckoutProvider
	switch cfg.Payments.Provider {
	case "", "noop":
		checkoutProvider = &service.NoopCheckoutProvider{BaseURL: cfg.Payments.BaseURL}
	default:
		log.Printf("Unknown payments provider %q", cfg.Payments.Provider)
		os.Exit(1)
	}
	paymentService, err := service.NewPaymentService(registrationRepo, programRepo, checkoutSessionRepo, checkoutProvider)
	if err != nil {
		log.Printf("Failed to initialize PaymentService: %v", err)
		os.Exit(1)
	}

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService, verificationService)
	onboardingHandler := handler.NewOnboardingHandler(onboardingService)
	clubHandler := handler.NewClubHandler(clubService)
	programHandler := handler.NewProgramHandler(programService, registrationService)
	registrationHandler := handler.NewRegistrationHandler(registrationService)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Создаем контекст с отменой для корректного завершения работы горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запускаем фоновую задачу для очистки истекших одноразовых кодов
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		log.Println("Запуск механизма периодической очистки истекших одноразовых кодов (каждый час)")

		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().Add(-24 * time.Hour)
				deleted, err := otpRepo.DeleteExpired(cutoff)
				if err != nil {
					log.Printf("Ошибка при очистке одноразовых кодов: %v", err)
				} else if deleted > 0 {
					log.Printf("Удалено истекших одноразовых кодов: %d", deleted)
				}
			case <-ctx.Done():
				log.Println("Завершение работы горутины очистки кодов")
				return
			}
		}
	}()

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	// В production (GIN_MODE=release): не доверяем прокси (защита от IP spoofing)
	// В development: доверяем localhost
	// При деплое на VM с load balancer: добавьте IP балансировщика в список
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	corsOrigins := []string{"http://localhost:5173", "http://localhost:3000"}
	if cfg.Portal.BaseURL != "" {
		corsOrigins = append(corsOrigins, cfg.Portal.BaseURL)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация и верификация
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.DefaultAuthRateLimitConfig()))
		{
			// Строгий лимит на эндпоинты, принимающие секреты
			strict := rateLimiter.Limit(middleware.StrictAuthRateLimitConfig())

			authGroup.POST("/login", strict, authHandler.Login)
			authGroup.POST("/login/2fa", strict, authHandler.CompleteTwoFactor)
			authGroup.POST("/forgot-password", authHandler.ForgotPassword)
			authGroup.POST("/reset-password", strict, authHandler.ResetPassword)

			// Установка пароля по одноразовому токену приглашения
			authGroup.POST("/setup/verify", strict, onboardingHandler.VerifySetupToken)
			authGroup.POST("/setup/password", strict, onboardingHandler.SetupPassword)

			// Маршруты, требующие аутентификации
			authedAuth := authGroup.Group("/")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.POST("/email/send-verification", authHandler.SendEmailVerification)
				authedAuth.POST("/email/confirm", strict, authHandler.ConfirmEmail)
			}
		}

		// Приглашения: владелец платформы и администраторы клубов
		invites := api.Group("/invites")
		invites.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole("owner", "admin"))
		{
			invites.POST("", onboardingHandler.Invite)
		}

		// Клубы (только владелец платформы)
		clubs := api.Group("/clubs")
		clubs.Use(authMiddleware.RequireAuth())
		{
			clubs.GET("", authMiddleware.RequireRole("owner"), clubHandler.ListClubs)
			clubs.POST("", authMiddleware.RequireRole("owner"), clubHandler.CreateClub)

			clubWithID := clubs.Group("/:id")
			clubWithID.Use(middleware.ExtractUintParam("id", "pathClubID"))
			{
				clubWithID.GET("", authMiddleware.RequireStaff(), clubHandler.GetClub)
			}
		}

		// Сезоны и программы (персонал клуба)
		seasons := api.Group("/seasons")
		seasons.Use(authMiddleware.RequireAuth())
		{
			seasons.GET("", programHandler.ListSeasons)
			seasons.POST("", authMiddleware.RequireRole("owner", "admin"), programHandler.CreateSeason)

			seasonWithID := seasons.Group("/:id")
			seasonWithID.Use(middleware.ExtractUintParam("id", "seasonID"))
			{
				seasonWithID.POST("/activate", authMiddleware.RequireRole("owner", "admin"), programHandler.ActivateSeason)
				seasonWithID.GET("/programs", programHandler.ListPrograms)
				seasonWithID.POST("/programs", authMiddleware.RequireRole("owner", "admin"), programHandler.CreateProgram)
			}
		}

		programs := api.Group("/programs")
		programs.Use(authMiddleware.RequireAuth())
		{
			programWithID := programs.Group("/:id")
			programWithID.Use(middleware.ExtractUintParam("id", "programID"))
			{
				programWithID.GET("", programHandler.GetProgram)
				programWithID.PUT("", authMiddleware.RequireRole("owner", "admin"), programHandler.UpdateProgram)
				programWithID.GET("/registrations", authMiddleware.RequireStaff(), registrationHandler.ListProgramRegistrations)
				programWithID.GET("/roster/export", authMiddleware.RequireStaff(), programHandler.ExportRoster)
			}
		}

		// Семейный портал: атлеты и записи
		athletes := api.Group("/athletes")
		athletes.Use(authMiddleware.RequireAuth())
		{
			athletes.GET("", registrationHandler.ListAthletes)
			athletes.POST("", registrationHandler.AddAthlete)
		}

		registrations := api.Group("/registrations")
		registrations.Use(authMiddleware.RequireAuth())
		{
			registrations.GET("", registrationHandler.ListMyRegistrations)
			registrations.POST("", registrationHandler.Register)

			regWithID := registrations.Group("/:id")
			regWithID.Use(middleware.ExtractUintParam("id", "registrationID"))
			{
				regWithID.POST("/cancel", registrationHandler.Cancel)
				regWithID.POST("/confirm", authMiddleware.RequireStaff(), registrationHandler.Confirm)
			}
		}

		// Платежи
		payments := api.Group("/payments")
		{
			payments.POST("/checkout", authMiddleware.RequireAuth(), paymentHandler.CreateCheckout)
			// Уведомление провайдера, аутентификация на уровне провайдера
			payments.POST("/callback", paymentHandler.ProviderCallback)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// После получения сигнала SIGINT или SIGTERM вызываем cancel() для завершения горутин
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
