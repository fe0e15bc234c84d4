package utils

import (
	"os"
	"strconv"
	"strings"
)

func IsTracingEnabled() bool {
	return GetEnvBool("OTEL_TRACES_ENABLED", false)
}

func OTelServiceName() string {
	serviceName := strings.TrimSpace(os.Getenv("OTEL_SERVICE_NAME"))
	if serviceName == "" {
		serviceName = "waitlist-foundry"
	}
	return serviceName
}

// GetEnvBool parses key as a bool, returning defaultValue when unset or malformed.
func GetEnvBool(key string, defaultValue bool) bool {
	v := GetEnvTrimmed(key)
	if v == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}

	return b
}
