package config

import (
	"testing"

	"github.com/akeren/waitlist-foundry/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAutoMigrateAllowed(t *testing.T) {
	tests := []struct {
		env     string
		allowed bool
	}{
		{env: "", allowed: true},
		{env: "development", allowed: true},
		{env: "  Local  ", allowed: true},
		{env: "TEST", allowed: true},
		{env: "production", allowed: false},
		{env: " Prod ", allowed: false},
		{env: "staging", allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			err := ValidateAutoMigrateAllowed(tt.env)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), AppEnvKey)
		})
	}
}

func TestGetAppEnv_Normalises(t *testing.T) {
	t.Setenv(AppEnvKey, "  Production ")
	assert.Equal(t, "production", GetAppEnv())
}

func TestGetValueFromEnvironmentVariable_KeepsExplicitEmpty(t *testing.T) {
	t.Setenv("WAITLIST_NOTIFY_EMAIL", "")
	assert.Equal(t, "", GetValueFromEnvironmentVariable("WAITLIST_NOTIFY_EMAIL", "team@example.com"))

	assert.Equal(t, "fallback", GetValueFromEnvironmentVariable("WAITLIST_TEST_UNSET_KEY", "fallback"))
}

func TestInitializeEnvFile_SkipDotenv(t *testing.T) {
	t.Setenv("SKIP_DOTENV", "true")
	t.Setenv("WAITLIST_STORE", "sqlite")

	InitializeEnvFile(log.NewNopLogger())

	assert.Equal(t, "sqlite", GetValueFromEnvironmentVariable("WAITLIST_STORE", ""))
}
