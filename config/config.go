package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment           string
	LogLevel              string
	LiveUpdateInterval    time.Duration
	LiveUpdateProbability float64
	ScoreMin              int
	ScoreMax              int
	ActiveRanking         string
	MongoDBURL            string
	MongoDatabase         string
	NATSURL               string
	RedisURL              string
	FlagVerifier          string
	FlagDigestFile        string
	ExportDir             string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded, using environment: %v", err)
	}
	config := Config{
		Environment:           getEnv("ARENA_ENV", "development"),
		LogLevel:              getEnv("LOGLEVEL", "info"),
		LiveUpdateInterval:    getDuration("LIVEUPDATEINTERVAL", 30*time.Second),
		LiveUpdateProbability: getFloat("LIVEUPDATEPROBABILITY", 0.1),
		ScoreMin:              getInt("SCOREMIN", 100),
		ScoreMax:              getInt("SCOREMAX", 599),
		ActiveRanking:         getEnv("ACTIVERANKING", "global"),
		MongoDBURL:            getEnv("MONGODBURL", ""),
		MongoDatabase:         getEnv("MONGODATABASE", "arena_db"),
		NATSURL:               getEnv("NATSURL", ""),
		RedisURL:              getEnv("REDISURL", ""),
		FlagVerifier:          getEnv("FLAGVERIFIER", "digest"),
		FlagDigestFile:        getEnv("FLAGDIGESTFILE", "flags.json"),
		ExportDir:             getEnv("EXPORTDIR", "."),
	}
	return config
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}
