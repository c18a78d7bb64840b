package gcs

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSourceCachesUntilNearExpiry(t *testing.T) {
	calls := 0
	ts := &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			calls++
			return "token-1", time.Now().Add(time.Hour), nil
		},
	}

	for i := 0; i < 3; i++ {
		token, err := ts.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "token-1", token)
	}
	assert.Equal(t, 1, calls)
}

func TestTokenSourceRefreshesExpiredToken(t *testing.T) {
	calls := 0
	ts := &tokenSource{
		token:  "stale",
		expiry: time.Now().Add(10 * time.Second),
		fetch: func(context.Context) (string, time.Time, error) {
			calls++
			return "fresh", time.Now().Add(time.Hour), nil
		},
	}

	token, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
	assert.Equal(t, 1, calls)
}

func TestTokenSourcePropagatesFetchErrors(t *testing.T) {
	ts := &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			return "", time.Time{}, errors.New("metadata unreachable")
		},
	}

	_, err := ts.Token(context.Background())
	assert.Error(t, err)
}

func TestParsePrivateKeyPKCS1AndPKCS8(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pkcs1 := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	parsed, err := parsePrivateKey(string(pkcs1))
	require.NoError(t, err)
	assert.True(t, key.Equal(parsed))

	pkcs8Bytes, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	pkcs8 := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8Bytes})
	parsed, err = parsePrivateKey(string(pkcs8))
	require.NoError(t, err)
	assert.True(t, key.Equal(parsed))

	_, err = parsePrivateKey("not a pem block")
	assert.Error(t, err)
}

func TestPublicURLEscapesObjectName(t *testing.T) {
	c := &Client{defaultBucket: "product-images"}

	assert.Equal(t,
		"https://storage.googleapis.com/product-images/1706000000000-piyama.jpg",
		c.PublicURL("", "1706000000000-piyama.jpg"),
	)
	assert.Equal(t,
		"https://storage.googleapis.com/other-bucket/foto%20azul.jpg",
		c.PublicURL("other-bucket", "foto azul.jpg"),
	)
}

func TestUploadRejectsUninitializedClient(t *testing.T) {
	var c *Client
	err := c.Upload(context.Background(), UploadInput{Bucket: "b", Object: "o"})
	assert.Error(t, err)
}

func TestNewClientRejectsBadCredentials(t *testing.T) {
	_, err := newServiceAccountTokenSource(nil, "{not json")
	assert.Error(t, err)

	_, err = newServiceAccountTokenSource(nil, `{"client_email":"","private_key":""}`)
	assert.Error(t, err)
}
