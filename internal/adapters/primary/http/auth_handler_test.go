package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	router, _ := newAPIRouter(t)

	email := uuid.NewString() + "@example.com"
	payload := fmt.Sprintf(`{"fullName":"New Hire","email":%q,"password":"Password1"}`, email)

	recorder := doRequest(router, stdhttp.MethodPost, "/auth/register", "", bytes.NewBufferString(payload))
	require.Equal(t, stdhttp.StatusCreated, recorder.Code)

	var response UserDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "New Hire", response.FullName)
	assert.Equal(t, email, response.Email)
	assert.NotEmpty(t, response.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	router, _ := newAPIRouter(t)

	existing := registerUser(t, ctx, "Already Here")

	payload := fmt.Sprintf(`{"fullName":"Copy Cat","email":%q,"password":"Password1"}`, existing.Email)
	recorder := doRequest(router, stdhttp.MethodPost, "/auth/register", "", bytes.NewBufferString(payload))

	require.Equal(t, stdhttp.StatusConflict, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "USER_EXISTS", response.Code)
}

func TestRegister_ValidationErrors(t *testing.T) {
	router, _ := newAPIRouter(t)

	payload := `{"fullName":"","email":"not-an-email","password":"short"}`
	recorder := doRequest(router, stdhttp.MethodPost, "/auth/register", "", bytes.NewBufferString(payload))

	require.Equal(t, stdhttp.StatusUnprocessableEntity, recorder.Code)

	var response ValidationErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Contains(t, response.Fields, "fullName")
	assert.Contains(t, response.Fields, "email")
	assert.Contains(t, response.Fields, "password")
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	router, _ := newAPIRouter(t)

	user := registerUser(t, ctx, "Login User")

	payload := fmt.Sprintf(`{"email":%q,"password":"Password1"}`, user.Email)
	recorder := doRequest(router, stdhttp.MethodPost, "/auth/login", "", bytes.NewBufferString(payload))

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response TokenResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, user.ID.String(), response.User.ID)

	// The issued token works against a protected route.
	meRecorder := doRequest(router, stdhttp.MethodGet, "/me", response.Token, nil)
	assert.Equal(t, stdhttp.StatusOK, meRecorder.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	router, _ := newAPIRouter(t)

	user := registerUser(t, ctx, "Login User")

	payload := fmt.Sprintf(`{"email":%q,"password":"WrongPass1"}`, user.Email)
	recorder := doRequest(router, stdhttp.MethodPost, "/auth/login", "", bytes.NewBufferString(payload))

	require.Equal(t, stdhttp.StatusUnauthorized, recorder.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	router, _ := newAPIRouter(t)

	payload := `{"email":"ghost@example.com","password":"Password1"}`
	recorder := doRequest(router, stdhttp.MethodPost, "/auth/login", "", bytes.NewBufferString(payload))

	// Unknown email and wrong password are indistinguishable.
	require.Equal(t, stdhttp.StatusUnauthorized, recorder.Code)
}
