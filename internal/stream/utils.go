package stream

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"slices"
	"strings"

	"codeberg.org/weconnect/server/internal/logger"
)

// validates the Origin header on websocket upgrades. Outside production
// everything is allowed; in production the origin must appear in
// ALLOWED_ORIGINS (comma-separated).
func CheckOrigin(r *http.Request) bool {
	if os.Getenv("ENVIRONMENT") != "production" {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		logger.Warn("websocket connection with no origin header")
		return false
	}

	allowed := allowedOrigins()
	if len(allowed) == 0 {
		logger.Warn("websocket origin rejected, ALLOWED_ORIGINS not configured", "origin", origin)
		return false
	}

	if slices.Contains(allowed, origin) {
		return true
	}

	logger.Warn("websocket origin rejected", "origin", origin)

	return false
}

func allowedOrigins() []string {
	raw := os.Getenv("ALLOWED_ORIGINS")
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))

	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}

// returns a random 32-char hex client id
func GenerateClientID() (string, error) {
	bytes := make([]byte, 16)

	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return hex.EncodeToString(bytes), nil
}
