package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/validation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	api := newTestAPI(t)
	stage := Authenticate(api.codec)

	valid := api.token(t, "u1", false)

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "not authenticated"},
		{"garbage token", "Bearer garbage", http.StatusForbidden, "token not valid"},
		{"no scheme", strings.TrimPrefix(valid, "Bearer "), http.StatusForbidden, "token not valid"},
		{"wrong scheme", "Basic " + strings.TrimPrefix(valid, "Bearer "), http.StatusForbidden, "token not valid"},
		{"scheme only", "Bearer ", http.StatusForbidden, "token not valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodGet, "/")
			if tt.header != "" {
				c.Request.Header.Set(common.AccessTokenHeaderName, tt.header)
			}

			rej := stage.Check(c)
			require.NotNil(t, rej)
			assert.Equal(t, tt.status, rej.Status)
			assert.Equal(t, tt.message, rej.Message)
			assert.False(t, rej.JSON)

			_, ok := IdentityFromContext(c)
			assert.False(t, ok)
		})
	}
}

func TestAuthenticate_ValidTokenSetsIdentity(t *testing.T) {
	api := newTestAPI(t)

	c, _ := newTestContext(http.MethodGet, "/")
	c.Request.Header.Set(common.AccessTokenHeaderName, api.token(t, "u1", true))

	assert.Nil(t, Authenticate(api.codec).Check(c))

	id, ok := IdentityFromContext(c)
	require.True(t, ok)
	assert.Equal(t, "u1", id.SubjectID)
	assert.True(t, id.IsAdmin)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	api := newTestAPI(t)
	header := api.token(t, "u1", false)

	*api.clock = epoch.Add(time.Hour + time.Second)

	c, _ := newTestContext(http.MethodGet, "/")
	c.Request.Header.Set(common.AccessTokenHeaderName, header)

	rej := Authenticate(api.codec).Check(c)
	require.NotNil(t, rej)
	assert.Equal(t, http.StatusForbidden, rej.Status)
	assert.Equal(t, "token not valid", rej.Message)
	assert.Equal(t, "expired token", rej.Reason)
}

func TestAuthenticate_ExpiryBoundaryOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	header := api.token(t, "a", true)

	*api.clock = epoch.Add(time.Hour)
	w := api.do(http.MethodGet, "/api/users/stats", header, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, api.users.calls["Stats"])

	*api.clock = epoch.Add(time.Hour + time.Second)
	w = api.do(http.MethodGet, "/api/users/stats", header, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "token not valid", w.Body.String())
	assert.Equal(t, 1, api.users.calls["Stats"])
}

func validateBody(t *testing.T, schema validation.Schema, body []byte) (*gin.Context, *Rejection) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	return c, Validate(validation.New(), schema).Check(c)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing email", `{"username":"alice1","password":"secret1"}`, `"email" is required`},
		{"short password", `{"username":"alice1","email":"alice@example.com","password":"abc"}`, `"password" length must be at least 5 characters long`},
		{"unknown field", `{"username":"alice1","email":"alice@example.com","password":"secret1","foo":1}`, `"foo" is not allowed`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rej := validateBody(t, validation.SchemaUser, []byte(tt.body))
			require.NotNil(t, rej)
			assert.Equal(t, http.StatusBadRequest, rej.Status)
			assert.Equal(t, tt.message, rej.Message)

			_, ok := c.Get(payloadKey)
			assert.False(t, ok)
		})
	}
}

func TestValidate_AttachesPayload(t *testing.T) {
	c, rej := validateBody(t, validation.SchemaUser, []byte(`{"username":"alice1","email":"alice@example.com","password":"secret1"}`))
	require.Nil(t, rej)

	p := payload[validation.UserPayload](c)
	assert.Equal(t, "alice1", p.Username)
}

func TestValidate_BodyTooLarge(t *testing.T) {
	body := append([]byte(`{"username":"`), bytes.Repeat([]byte("a"), MaxBodyBytes+1)...)
	_, rej := validateBody(t, validation.SchemaUser, body)
	require.NotNil(t, rej)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rej.Status)
}
