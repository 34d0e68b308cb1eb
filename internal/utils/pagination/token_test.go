package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	invoiceDate := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(invoiceDate, createdAt)
	assert.NotEmpty(t, token, "Token should not be empty")
	assert.NotContains(t, token, "/", "Token must be safe in a query string")

	decodedDate, decodedCreatedAt, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, invoiceDate, decodedDate)
	assert.Equal(t, createdAt, decodedCreatedAt)

	zeroTime := time.Time{}
	decodedZeroDate, decodedZeroTime, err := DecodeToken(EncodeToken(zeroTime, zeroTime))
	assert.NoError(t, err)
	assert.Equal(t, zeroTime, decodedZeroDate)
	assert.Equal(t, zeroTime, decodedZeroTime)
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.ErrorContains(t, err, "base64 decode")

	noSeparator := base64.URLEncoding.EncodeToString([]byte("2024-05-15T00:00:00Z"))
	_, _, err = DecodeToken(noSeparator)
	assert.ErrorContains(t, err, "split")

	badDate := base64.URLEncoding.EncodeToString([]byte("notadate|2024-05-15T14:30:45Z"))
	_, _, err = DecodeToken(badDate)
	assert.ErrorContains(t, err, "sort date parse")

	badCreated := base64.URLEncoding.EncodeToString([]byte("2024-05-15T00:00:00Z|never"))
	_, _, err = DecodeToken(badCreated)
	assert.ErrorContains(t, err, "created_at parse")
}
