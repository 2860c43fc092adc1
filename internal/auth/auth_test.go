package auth

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWT_Success(t *testing.T) {
	os.Setenv( //nolint:errcheck // test fixture
	"JWT_SECRET", "test-secret-key-for-testing")
	defer os.Unsetenv( //nolint:errcheck // test cleanup
	"JWT_SECRET")

	token, err := GenerateJWT("user-123", "test@example.com")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 3, len(strings.Split(token, ".")), "JWT should have 3 parts")
}

func TestGenerateJWT_MissingSecret(t *testing.T) {
	os.Unsetenv( //nolint:errcheck // test cleanup
	"JWT_SECRET")

	_, err := GenerateJWT("user-123", "test@example.com")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET not set")
}

func TestValidateJWT_ValidToken(t *testing.T) {
	os.Setenv( //nolint:errcheck // test fixture
	"JWT_SECRET", "test-secret-key-for-testing")
	defer os.Unsetenv( //nolint:errcheck // test cleanup
	"JWT_SECRET")

	token, err := GenerateJWT("user-123", "test@example.com")
	require.NoError(t, err)

	claims, err := ValidateJWT(token)

	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
}

func TestValidateJWT_ExpiredToken(t *testing.T) {
	os.Setenv( //nolint:errcheck // test fixture
	"JWT_SECRET", "test-secret-key-for-testing")
	defer os.Unsetenv( //nolint:errcheck // test cleanup
	"JWT_SECRET")

	// create an expired token
	claims := Claims{
		UserID: "user-123",
		Email:  "test@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret-key-for-testing"))
	require.NoError(t, err)

	_, err = ValidateJWT(signed)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestValidateJWT_TamperedToken(t *testing.T) {
	os.Setenv( //nolint:errcheck // test fixture
	"JWT_SECRET", "test-secret-key-for-testing")
	defer os.Unsetenv( //nolint:errcheck // test cleanup
	"JWT_SECRET")

	token, err := GenerateJWT("user-123", "test@example.com")
	require.NoError(t, err)

	// flip a character in the payload
	tampered := token[:len(token)-10] + "XXXXXXXXXX"

	_, err = ValidateJWT(tampered)
	assert.Error(t, err)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	os.Setenv( //nolint:errcheck // test fixture
	"JWT_SECRET", "test-secret-key-for-testing")

	token, err := GenerateJWT("user-123", "test@example.com")
	require.NoError(t, err)

	os.Setenv( //nolint:errcheck // test fixture
	"JWT_SECRET", "a-completely-different-secret")
	defer os.Unsetenv( //nolint:errcheck // test cleanup
	"JWT_SECRET")

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWT_AlgorithmConfusionAttack(t *testing.T) {
	os.Setenv( //nolint:errcheck // test fixture
	"JWT_SECRET", "test-secret-key-for-testing")
	defer os.Unsetenv( //nolint:errcheck // test cleanup
	"JWT_SECRET")

	// token signed with "none" must be rejected
	claims := Claims{
		UserID: "user-123",
		Email:  "test@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateJWT(signed)
	assert.Error(t, err)
}

func TestValidateJWT_MalformedToken(t *testing.T) {
	os.Setenv( //nolint:errcheck // test fixture
	"JWT_SECRET", "test-secret-key-for-testing")
	defer os.Unsetenv( //nolint:errcheck // test cleanup
	"JWT_SECRET")

	for _, bad := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		_, err := ValidateJWT(bad)
		assert.Error(t, err, "token %q should be rejected", bad)
	}
}
