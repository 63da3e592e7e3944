package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config armazena todas as configurações do serviço GoVendas.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string
	LogFile     string // Vazio: apenas stdout

	// Banco de Dados (PostgreSQL). DatabaseURL vazio ativa o armazenamento em memória.
	DatabaseURL    string
	DBTimeout      time.Duration
	DBMaxOpenConns int
	DBMaxIdleConns int

	// Cache (Redis). RedisAddr vazio desativa o cache.
	RedisAddr       string
	CacheTimeout    time.Duration
	ProductCacheTTL time.Duration
	IdempotencyTTL  time.Duration

	// Segurança (JWT + administrador único)
	JWTSecretKey      string
	TokenExpiry       time.Duration
	AdminEmail        string
	AdminPasswordHash string

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// Fuso usado para definir "hoje" (vencimento de parcelas, data padrão da venda)
	BusinessTimezone string
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. Geral
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFile:     getEnv("LOG_FILE", ""),

		// 2. Banco de Dados (PostgreSQL)
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DBTimeout:      getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,
		DBMaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 10),

		// 3. Cache (Redis)
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		CacheTimeout:    getDurationEnv("CACHE_TIMEOUT_SEC", 10) * time.Second,
		ProductCacheTTL: getDurationEnv("PRODUCT_CACHE_TTL_SEC", 300) * time.Second,
		IdempotencyTTL:  getDurationEnv("IDEMPOTENCY_TTL_SEC", 600) * time.Second,

		// 4. Segurança
		JWTSecretKey:      mustGetEnv("JWT_SECRET_KEY"),
		TokenExpiry:       getDurationEnv("JWT_EXPIRY_MIN", 60) * time.Minute,
		AdminEmail:        strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", "admin@govendas.local"))),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		// 5. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,

		BusinessTimezone: getEnv("BUSINESS_TIMEZONE", "America/Sao_Paulo"),
	}

	return cfg
}

// Location resolve o fuso de negócio, caindo para UTC se o nome for inválido.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		log.Printf("⚠️ Aviso: fuso horário '%s' inválido. Usando UTC.", c.BusinessTimezone)
		return time.UTC
	}
	return loc
}

// UseMemoryStore indica se o serviço deve rodar sem PostgreSQL.
func (c *Config) UseMemoryStore() bool {
	return c.DatabaseURL == ""
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// mustGetEnv lê a variável de ambiente, fatal se não estiver presente.
func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	log.Fatalf("❌ Erro de Configuração: A variável de ambiente %s deve ser definida.", key)
	return ""
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue))
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
