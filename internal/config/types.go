package config

type Config struct {
	Environment        string
	BaseURL            string
	SupabaseConnString string
	RedisURL           string
	JWTSecret          string
	SessionSecret      string

	// payment gateway (withdrawals disabled when unset)
	PaystackSecretKey string
	PaystackBaseURL   string
}
