package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceTokenRoundTrip(t *testing.T) {
	token, err := GenerateServiceToken("crosstrace-engine", "test-secret", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "crosstrace-engine", claims["sub"])
	assert.Equal(t, "crosstrace", claims["iss"])
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateServiceToken("crosstrace-engine", "test-secret", time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateJWTRejectsExpiredToken(t *testing.T) {
	token, err := GenerateServiceToken("crosstrace-engine", "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "test-secret")
	assert.Error(t, err)
}

func TestGenerateULIDIsUniqueAndSortable(t *testing.T) {
	a := GenerateULID()
	b := GenerateULID()

	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}
