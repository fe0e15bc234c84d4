package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func GetEnvTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetEnvTrimmedOrDefault(key, defaultValue string) string {
	v := strings.TrimSpace(os.Getenv(key))

	if v == "" {
		return defaultValue
	}

	return v
}

// GetEnvPositiveInt returns defaultValue unless key holds an integer greater than zero.
func GetEnvPositiveInt(key string, defaultValue int) int {
	if raw := GetEnvTrimmed(key); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}

	return defaultValue
}

// GetEnvPositiveDuration returns defaultValue unless key holds a positive time.ParseDuration value.
func GetEnvPositiveDuration(key string, defaultValue time.Duration) time.Duration {
	if raw := GetEnvTrimmed(key); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			return parsed
		}
	}

	return defaultValue
}

// FirstEnvTrimmed returns the first non-empty value among keys.
func FirstEnvTrimmed(keys ...string) string {
	for _, key := range keys {
		if v := GetEnvTrimmed(key); v != "" {
			return v
		}
	}

	return ""
}

// MaskEmail keeps the first rune of the local part and the full domain: j***@example.com.
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}

	first, _ := utf8.DecodeRuneInString(email)
	return string(first) + "***" + email[at:]
}
