package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvValidators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		validate func(string) error
		value    string
		wantErr  bool
	}{
		{"bool true", validateEnvBool, "true", false},
		{"bool padded", validateEnvBool, " 1 ", false},
		{"bool yes", validateEnvBool, "yes", true},
		{"locale en", validateEnvLocale, "en", false},
		{"locale cht", validateEnvLocale, "cht", false},
		{"locale upper", validateEnvLocale, "EN", true},
		{"locale region", validateEnvLocale, "en-us", true},
		{"url https", validateEnvURL, "https://example.com/wiki", false},
		{"url no host", validateEnvURL, "https://", true},
		{"url scheme", validateEnvURL, "file:///tmp", true},
		{"duration", validateEnvDuration, "5s", false},
		{"duration negative", validateEnvDuration, "-1s", true},
		{"duration garbage", validateEnvDuration, "soon", true},
		{"rate", validateEnvPositiveFloat, "0.5", false},
		{"rate zero", validateEnvPositiveFloat, "0", true},
		{"workers", validateEnvWorkers, "8", false},
		{"workers zero", validateEnvWorkers, "0", true},
		{"non empty", validateEnvNonEmpty, "data.json", false},
		{"blank", validateEnvNonEmpty, "  ", true},
		{"listen", validateEnvListen, ":8080", false},
		{"listen no port", validateEnvListen, "localhost", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.validate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
