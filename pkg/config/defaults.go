// Package config provides centralized default values for CrossTrace
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseFloat(valStr, 64); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%g (default: %g)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration (embedding/standalone mode)
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Remote Endpoints
	SessionStoreURL       string
	CorrelationServiceURL string
	RemoteTimeout         time.Duration
	ServiceJWTSecret      string
	ServiceTokenTTL       time.Duration

	// Correlation Defaults
	MinCorrelationConfidence float64
	MaxCorrelationResults    int

	// Cache Configuration
	JourneyCacheCapacity     int
	CorrelationCacheCapacity int
	InsightCacheCapacity     int
	JourneyCacheTTL          time.Duration
	CorrelationCacheTTL      time.Duration
	InsightCacheTTL          time.Duration

	// Cleanup Intervals
	CleanupInterval time.Duration
	CleanupVerbose  bool

	// Local Store (standalone/dev mode)
	DBDriver           string
	DBPath             string
	SlowQueryThreshold time.Duration

	// Alerting
	AlertEmailTo       string
	BroadcastAlerts    bool
	AlertBufferPerConn int
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Remote Endpoints
	SessionStoreURL = getEnvString("SESSION_STORE_URL", "")
	CorrelationServiceURL = getEnvString("CORRELATION_SERVICE_URL", "")
	RemoteTimeout = getEnvDuration("REMOTE_TIMEOUT", 10*time.Second)
	ServiceJWTSecret = getEnvString("SERVICE_JWT_SECRET", "")
	ServiceTokenTTL = getEnvDuration("SERVICE_TOKEN_TTL", 5*time.Minute)

	// Correlation Defaults
	MinCorrelationConfidence = getEnvFloat("MIN_CORRELATION_CONFIDENCE", 0.7)
	MaxCorrelationResults = getEnvInt("MAX_CORRELATION_RESULTS", 50)

	// Cache Configuration
	JourneyCacheCapacity = getEnvInt("JOURNEY_CACHE_CAPACITY", 5000)
	CorrelationCacheCapacity = getEnvInt("CORRELATION_CACHE_CAPACITY", 5000)
	InsightCacheCapacity = getEnvInt("INSIGHT_CACHE_CAPACITY", 5000)
	JourneyCacheTTL = time.Duration(getEnvInt("JOURNEY_CACHE_TTL_MINUTES", 30)) * time.Minute
	CorrelationCacheTTL = time.Duration(getEnvInt("CORRELATION_CACHE_TTL_MINUTES", 30)) * time.Minute
	InsightCacheTTL = time.Duration(getEnvInt("INSIGHT_CACHE_TTL_MINUTES", 60)) * time.Minute

	// Cleanup Intervals
	CleanupInterval = time.Duration(getEnvInt("CACHE_CLEANUP_INTERVAL_MINUTES", 30)) * time.Minute
	CleanupVerbose = getEnvBool("CACHE_CLEANUP_VERBOSE", false)

	// Local Store
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBPath = getEnvString("DB_PATH", "crosstrace.db")
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 100*time.Millisecond)

	// Alerting
	AlertEmailTo = getEnvString("ALERT_EMAIL_TO", "")
	BroadcastAlerts = getEnvBool("BROADCAST_ALERTS", true)
	AlertBufferPerConn = getEnvInt("ALERT_BUFFER_PER_CONN", 16)
}
