package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSession struct {
	token, login string
}

func (m *memSession) Save(token string) error {
	m.token = token
	return nil
}

func (m *memSession) Load() (string, error) {
	if m.token == "" {
		return "", errors.New("no token")
	}
	return m.token, nil
}
func (m *memSession) SaveLogin(login string) error {
	m.login = login
	return nil
}

func (m *memSession) LoadLogin() (string, error) { return m.login, nil }

func TestClient_RegisterStoresSession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "auth_token", Value: "tok-1"})
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	s := &memSession{}
	c := NewClient(ts.URL+"/", s)
	require.NoError(t, c.Register(context.Background(), "alice", "pw"))
	assert.Equal(t, "tok-1", s.token)
	assert.Equal(t, "alice", s.login)
}

func TestClient_ErrorMapping(t *testing.T) {
	status := http.StatusConflict
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":"No API key available. Please add your Google AI API key in settings."}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, &memSession{token: "tok"})
	ctx := context.Background()

	assert.ErrorIs(t, c.Register(ctx, "a", "b"), ErrLoginTaken)

	status = http.StatusUnauthorized
	assert.ErrorIs(t, c.Login(ctx, "a", "b"), ErrInvalidCredentials)
	_, err := c.Chats(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	status = http.StatusUnprocessableEntity
	_, err = c.Send(ctx, "c1", "hi", "")
	var se *ServerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnprocessableEntity, se.Status)
	assert.Equal(t, "No API key available. Please add your Google AI API key in settings.", se.Error())
}

func TestClient_NoTokenSkipsRequest(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, &memSession{}).Keys(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.False(t, called)
}
