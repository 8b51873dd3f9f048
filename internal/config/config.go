package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	AppPort  string
	LogLevel string
	LogJSON  bool

	DBDSN string

	JWTSecret            string
	JWTAccessExpiresMin  int
	JWTRefreshExpiresMin int

	RedisAddr     string
	RedisPassword string

	AdminEmail    string
	AdminPassword string
	AdminName     string

	SMTPHost        string
	SMTPPort        int
	EmailUser       string
	EmailPass       string
	ResetCodeTTLMin int
	ReminderCron    string

	UploadDriver     string // local | cloudinary
	UploadDir        string
	AppBaseURL       string
	CloudinaryCloud  string
	CloudinaryKey    string
	CloudinarySecret string
	CloudinaryPreset string
	CloudinaryFolder string

	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
	CORSOrigins     string
}

func Load() Config {
	return Config{
		AppPort:  get("APP_PORT", "8080"),
		LogLevel: get("LOG_LEVEL", "info"),
		LogJSON:  getBool("LOG_JSON", true),

		DBDSN: must("DB_DSN"),

		JWTSecret:            must("JWT_SECRET"),
		JWTAccessExpiresMin:  getInt("JWT_ACCESS_EXPIRES_MIN", 60),
		JWTRefreshExpiresMin: getInt("JWT_REFRESH_EXPIRES_MIN", 10080),

		RedisAddr:     get("REDIS_ADDR", "localhost:6379"),
		RedisPassword: get("REDIS_PASSWORD", ""),

		AdminEmail:    get("ADMIN_EMAIL", ""),
		AdminPassword: get("ADMIN_PASSWORD", ""),
		AdminName:     get("ADMIN_NAME", "Administrator"),

		SMTPHost:        get("SMTP_HOST", ""),
		SMTPPort:        getInt("SMTP_PORT", 587),
		EmailUser:       get("EMAIL_USER", ""),
		EmailPass:       get("EMAIL_PASS", ""),
		ResetCodeTTLMin: getInt("RESET_CODE_TTL_MIN", 1440),
		ReminderCron:    get("REMINDER_CRON", "0 18 * * *"),

		UploadDriver:     strings.ToLower(get("UPLOAD_DRIVER", "local")),
		UploadDir:        get("UPLOAD_DIR", "./uploads"),
		AppBaseURL:       get("APP_BASE_URL", ""),
		CloudinaryCloud:  get("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryKey:    get("CLOUDINARY_API_KEY", ""),
		CloudinarySecret: get("CLOUDINARY_API_SECRET", ""),
		CloudinaryPreset: get("CLOUDINARY_UPLOAD_PRESET", ""),
		CloudinaryFolder: get("CLOUDINARY_FOLDER", "fixitnow"),

		GoogleClientID:  get("GOOGLE_CLIENT_ID", ""),
		GoogleSecret:    get("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirect:  get("GOOGLE_REDIRECT_URL", ""),
		FrontendBaseURL: get("FRONTEND_BASE_URL", "http://localhost:3000"),
		CORSOrigins:     get("CORS_ORIGINS", "http://127.0.0.1:3000, http://localhost:3000"),
	}
}

func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleSecret != "" && c.GoogleRedirect != ""
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getInt(k string, def int) int {
	n, err := strconv.Atoi(get(k, ""))
	if err != nil {
		return def
	}
	return n
}

func getBool(k string, def bool) bool {
	b, err := strconv.ParseBool(get(k, ""))
	if err != nil {
		return def
	}
	return b
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
