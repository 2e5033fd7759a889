package sessiontoken

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/oakgrove/campus-portal/internal/domain/auth"
	"github.com/oakgrove/campus-portal/internal/testutil"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	codec, err := NewCodec(key, &key.PublicKey)
	require.NoError(t, err)
	return codec
}

func TestSealOpenRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	issued := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	token, err := codec.Seal(domainauth.SessionClaims{
		Subject:  "alice@example",
		IssuedAt: issued,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v1:"))

	claims, err := codec.Open(token)
	require.NoError(t, err)
	assert.Equal(t, domainauth.Subject("alice@example"), claims.Subject)
	assert.True(t, issued.Equal(claims.IssuedAt))
}

func TestSealFillsIssuedAt(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Seal(domainauth.SessionClaims{Subject: "bob@campus"})
	require.NoError(t, err)

	claims, err := codec.Open(token)
	require.NoError(t, err)
	assert.False(t, claims.IssuedAt.IsZero())
}

func TestSealEmptySubject(t *testing.T) {
	codec := newTestCodec(t)

	_, err := codec.Seal(domainauth.SessionClaims{})
	require.ErrorIs(t, err, ErrSealFailed)
}

func TestOpenRejectsGarbage(t *testing.T) {
	codec := newTestCodec(t)

	for _, token := range []string{
		"",
		"not-a-token",
		"v2:abc",
		"v1:!!!not-base64!!!",
		"v1:" + strings.Repeat("A", 340),
	} {
		_, err := codec.Open(token)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", token)
	}
}

func TestOpenRejectsForeignKeypair(t *testing.T) {
	token, err := newTestCodec(t).Seal(domainauth.SessionClaims{Subject: "alice@example"})
	require.NoError(t, err)

	_, err = newTestCodec(t).Open(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewCodecRejectsMismatchedHalves(t *testing.T) {
	keyA, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	keyB, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	_, err = NewCodec(keyA, &keyB.PublicKey)
	require.Error(t, err)

	_, err = NewCodec(nil, &keyA.PublicKey)
	require.Error(t, err)
}

func TestLoadFromPEMFiles(t *testing.T) {
	privFile, pubFile := testutil.WriteKeypairPEM(t, t.TempDir())

	codec, err := Load(privFile, pubFile)
	require.NoError(t, err)

	token, err := codec.Seal(domainauth.SessionClaims{Subject: "alice@example"})
	require.NoError(t, err)
	claims, err := codec.Open(token)
	require.NoError(t, err)
	assert.Equal(t, domainauth.Subject("alice@example"), claims.Subject)
}

func TestLoadMissingFile(t *testing.T) {
	_, pubFile := testutil.WriteKeypairPEM(t, t.TempDir())

	_, err := Load("/nonexistent/private.pem", pubFile)
	require.Error(t, err)
}
