package middleware

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-petr/vault-wallet/pkg/tokenpkg"
	"github.com/stretchr/testify/require"
)

// AddAuthorization creates an access token for the given user and sets
// it on the request. Used by delivery tests.
func AddAuthorization(
	t *testing.T,
	request *http.Request,
	tokenMaker tokenpkg.Maker,
	authorizationType string,
	username string,
	duration time.Duration,
) {
	t.Helper()

	token, _, err := tokenMaker.CreateToken(username, duration)
	require.NoError(t, err)

	authorizationHeader := fmt.Sprintf("%s %s", authorizationType, token)
	request.Header.Set(AuthorizationHeaderKey, authorizationHeader)
}
