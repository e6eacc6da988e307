package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===================== HashPassword Tests =====================

func TestHashPassword_Success(t *testing.T) {
	// Arrange
	password := "strong-password-123"

	// Act
	hash, err := HashPassword(password)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash) // Хэш не должен совпадать с паролем
}

func TestHashPassword_DifferentHashesForSamePassword(t *testing.T) {
	// Arrange
	password := "strong-password-123"

	// Act
	hash1, err1 := HashPassword(password)
	hash2, err2 := HashPassword(password)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEqual(t, hash1, hash2) // bcrypt использует random salt, поэтому хэши разные
}

func TestHashPassword_TooLongPassword(t *testing.T) {
	// Arrange - bcrypt отклоняет пароли длиннее 72 байт
	password := strings.Repeat("a", 100)

	// Act
	_, err := HashPassword(password)

	// Assert
	assert.Error(t, err)
}

// ===================== CheckPassword Tests =====================

func TestCheckPassword_CorrectPassword(t *testing.T) {
	// Arrange
	password := "correct-password-123"
	hash, _ := HashPassword(password)

	// Act & Assert
	assert.True(t, CheckPassword(password, hash))
}

func TestCheckPassword_WrongPassword(t *testing.T) {
	// Arrange
	hash, _ := HashPassword("correct-password-123")

	// Act & Assert
	assert.False(t, CheckPassword("wrong-password", hash))
}

func TestCheckPassword_EmptyPassword(t *testing.T) {
	// Arrange
	hash, _ := HashPassword("somepassword")

	// Act & Assert
	assert.False(t, CheckPassword("", hash))
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	// Act & Assert
	assert.False(t, CheckPassword("somepassword", "not-a-valid-bcrypt-hash"))
	assert.False(t, CheckPassword("somepassword", ""))
}

func TestCheckPassword_CaseSensitive(t *testing.T) {
	// Arrange
	hash, _ := HashPassword("MyPassword123")

	// Act & Assert
	assert.True(t, CheckPassword("MyPassword123", hash))
	assert.False(t, CheckPassword("mypassword123", hash))
	assert.False(t, CheckPassword("MYPASSWORD123", hash))
}

func TestCheckPassword_SpecialCharacters(t *testing.T) {
	// Arrange
	passwords := []string{
		"password!@#$%^&*()",
		"пароль на русском",
		"pass word with spaces",
		"pass\nword\twith\rwhitespace",
	}

	for _, password := range passwords {
		t.Run(password, func(t *testing.T) {
			// Act
			hash, err := HashPassword(password)

			// Assert
			require.NoError(t, err)
			assert.True(t, CheckPassword(password, hash))
			assert.False(t, CheckPassword(password+"x", hash))
		})
	}
}
