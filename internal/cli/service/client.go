// Package service содержит юзкейсы CLI поверх HTTP API сервера.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"GophChat/internal/cli/api"
	"GophChat/internal/cli/model"
	"GophChat/internal/cli/repo"
)

var (
	ErrNotLoggedIn        = errors.New("not logged in, run login first")
	ErrLoginTaken         = errors.New("login already in use")
	ErrInvalidCredentials = errors.New("invalid login or password")
)

// ServerError — ответ сервера с неожиданным статусом.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server status %d", e.Status)
	}
	return e.Message
}

// Session определяет, где CLI хранит токен и последний логин.
type Session interface {
	repo.TokenStore
	repo.UserContextStore
}

// Client — типизированный клиент API чатов.
type Client struct {
	BaseURL string
	Session Session
}

func NewClient(baseURL string, s Session) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), Session: s}
}

// Register регистрирует пользователя и сохраняет выданный токен.
func (c *Client) Register(ctx context.Context, login, password string) error {
	return c.authenticate(ctx, "/api/user/register", login, password)
}

// Login входит и сохраняет выданный токен.
func (c *Client) Login(ctx context.Context, login, password string) error {
	return c.authenticate(ctx, "/api/user/login", login, password)
}

func (c *Client) authenticate(ctx context.Context, path, login, password string) error {
	payload := map[string]string{"login": login, "password": password}
	resp, body, err := api.DoJSON(ctx, http.MethodPost, c.BaseURL+path, payload, "")
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusConflict:
		return ErrLoginTaken
	case http.StatusUnauthorized:
		return ErrInvalidCredentials
	default:
		return &ServerError{Status: resp.StatusCode, Message: api.ErrorText(body)}
	}
	if err := api.PersistAuthFromResponse(c.Session, resp); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}
	return c.Session.SaveLogin(login)
}

// Status показывает, как сервер видит текущий токен.
func (c *Client) Status(ctx context.Context) (string, error) {
	token, _ := c.Session.Load()
	var out struct {
		Result string `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/user/test", struct{}{}, token, &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.Result, nil
}

func (c *Client) Models(ctx context.Context) ([]model.ModelInfo, error) {
	var out []model.ModelInfo
	err := c.do(ctx, http.MethodGet, "/api/models", nil, "", &out, http.StatusOK)
	return out, err
}

func (c *Client) Chats(ctx context.Context) ([]model.Chat, error) {
	var out []model.Chat
	err := c.authed(ctx, http.MethodGet, "/api/chats", nil, &out, http.StatusOK)
	return out, err
}

func (c *Client) CreateChat(ctx context.Context, modelID, title string) (*model.Chat, error) {
	var out model.Chat
	payload := map[string]string{"model": modelID, "title": title}
	if err := c.authed(ctx, http.MethodPost, "/api/chats", payload, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RenameChat(ctx context.Context, chatID, title string) (*model.Chat, error) {
	var out model.Chat
	payload := map[string]string{"title": title}
	if err := c.authed(ctx, http.MethodPatch, "/api/chats/"+url.PathEscape(chatID), payload, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	return c.authed(ctx, http.MethodDelete, "/api/chats/"+url.PathEscape(chatID), nil, nil, http.StatusNoContent)
}

func (c *Client) Messages(ctx context.Context, chatID string) ([]model.Message, error) {
	var out []model.Message
	err := c.authed(ctx, http.MethodGet, "/api/chats/"+url.PathEscape(chatID)+"/messages", nil, &out, http.StatusOK)
	return out, err
}

// Send отправляет реплику и возвращает ответ модели.
func (c *Client) Send(ctx context.Context, chatID, text, modelID string) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	payload := map[string]string{"text": text, "model": modelID}
	if err := c.authed(ctx, http.MethodPost, "/api/chats/"+url.PathEscape(chatID)+"/send", payload, &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.Text, nil
}

// Image просит сгенерировать изображение и возвращает подпись.
func (c *Client) Image(ctx context.Context, chatID, prompt, modelID string) (string, error) {
	var out struct {
		Caption string `json:"caption"`
	}
	payload := map[string]string{"prompt": prompt, "model": modelID}
	if err := c.authed(ctx, http.MethodPost, "/api/chats/"+url.PathEscape(chatID)+"/image", payload, &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.Caption, nil
}

func (c *Client) Keys(ctx context.Context) ([]model.Key, error) {
	var out []model.Key
	err := c.authed(ctx, http.MethodGet, "/api/keys", nil, &out, http.StatusOK)
	return out, err
}

func (c *Client) SaveKey(ctx context.Context, provider, name, secret string) (*model.Key, error) {
	var out model.Key
	payload := map[string]string{"provider": provider, "key_name": name, "secret": secret}
	if err := c.authed(ctx, http.MethodPost, "/api/keys", payload, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteKey(ctx context.Context, keyID string) error {
	return c.authed(ctx, http.MethodDelete, "/api/keys/"+url.PathEscape(keyID), nil, nil, http.StatusNoContent)
}

// authed делает запрос с сохранённым токеном; без токена сервер не вызывается.
func (c *Client) authed(ctx context.Context, method, path string, payload, out any, want int) error {
	token, err := c.Session.Load()
	if err != nil || token == "" {
		return ErrNotLoggedIn
	}
	return c.do(ctx, method, path, payload, token, out, want)
}

func (c *Client) do(ctx context.Context, method, path string, payload any, token string, out any, want int) error {
	resp, body, err := api.DoJSON(ctx, method, c.BaseURL+path, payload, token)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		return ErrNotLoggedIn
	}
	if resp.StatusCode != want {
		return &ServerError{Status: resp.StatusCode, Message: api.ErrorText(body)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
