package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "kafka:9092", want: []string{"kafka:9092"}},
		{name: "spaces and blanks", in: " a:1 , ,b:2,", want: []string{"a:1", "b:2"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CSV(tt.in))
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()

	assert.Equal(t, 5000, cfg.ServerPort)
	assert.Equal(t, StoreGorm, cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "https://api.razorpay.com", cfg.RazorpayBaseURL)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "MONGO")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestEnvDefaults_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "-5s")

	assert.Equal(t, 7, EnvIntDefault("X_INT", 7))
	assert.True(t, EnvBoolDefault("X_BOOL", true))
	assert.Equal(t, time.Second, EnvDurationDefault("X_DUR", time.Second))
}

func validConfig() Config {
	return Config{
		StoreDriver:       StoreGorm,
		DBDriver:          "postgres",
		DatabaseURL:       "postgres://localhost/shop",
		ProductSource:     ProductsFromStore,
		SessionDriver:     SessionsMemory,
		SessionSecret:     []byte("secret"),
		RazorpayKeyID:     "rzp_test",
		RazorpayKeySecret: "shh",
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "missing dsn", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: "DATABASE_URL"},
		{name: "mongo without uri", mutate: func(c *Config) { c.StoreDriver = StoreMongo }, wantErr: "MONGO_URI"},
		{name: "unknown dialect", mutate: func(c *Config) { c.DBDriver = "oracle" }, wantErr: "DB_DRIVER"},
		{name: "unknown store", mutate: func(c *Config) { c.StoreDriver = "bolt" }, wantErr: "STORE_DRIVER"},
		{name: "es without url", mutate: func(c *Config) { c.ProductSource = ProductsFromES }, wantErr: "ES_URL"},
		{name: "missing secret", mutate: func(c *Config) { c.SessionSecret = nil }, wantErr: "SESSION_SECRET"},
		{name: "missing razorpay key", mutate: func(c *Config) { c.RazorpayKeyID = "" }, wantErr: "RAZORPAY_KEY_ID"},
		{name: "sendgrid without recipients", mutate: func(c *Config) { c.SendGridAPIKey = "SG.x" }, wantErr: "CONTACT_MAIL_TO"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateStore(t *testing.T) {
	t.Parallel()

	storeOnly := Config{StoreDriver: StoreGorm, DBDriver: "sqlite", DatabaseURL: "file:shop.db"}
	require.NoError(t, storeOnly.ValidateStore())
	require.Error(t, storeOnly.Validate(), "serve still needs secrets that migrate does not")

	storeOnly.DatabaseURL = ""
	err := storeOnly.ValidateStore()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	err = Config{StoreDriver: StoreMongo}.ValidateStore()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URI")

	err = Config{StoreDriver: "bolt"}.ValidateStore()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}
