package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	RedisURL      string
	RedisPassword string
	RedisDB       int
	JWTSecret     string

	AccessTokenTTLMin int // Access Token 有效期（分钟）
	RefreshTokenTTLH  int // Refresh Token 有效期（小时）

	UploadDir       string // 本地媒体存储目录
	MaxUploadSizeMB int    // 上传文件最大尺寸（MB）

	OSS struct {
		Endpoint        string
		AccessKeyID     string
		AccessKeySecret string
		Bucket          string
	}
}

func Load() *Config {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	accessTTL, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_TTL_MIN", "30"))
	refreshTTL, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_TTL_H", "240"))
	maxUploadSizeMB, _ := strconv.Atoi(getEnv("MAX_UPLOAD_SIZE_MB", "10"))

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           redisDB,
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AccessTokenTTLMin: accessTTL,
		RefreshTokenTTLH:  refreshTTL,
		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSizeMB:   maxUploadSizeMB,
	}

	cfg.OSS.Endpoint = os.Getenv("OSS_ENDPOINT")
	cfg.OSS.AccessKeyID = os.Getenv("OSS_ACCESS_KEY_ID")
	cfg.OSS.AccessKeySecret = os.Getenv("OSS_ACCESS_KEY_SECRET")
	cfg.OSS.Bucket = getEnv("OSS_BUCKET", "dinq")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
