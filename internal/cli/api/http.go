package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"GophChat/internal/cli/repo"
)

// CookieName — cookie авторизации сервера.
const CookieName = "auth_token"

// DoJSON отправляет запрос с JSON-телом (при payload == nil без тела).
// Если token не пустой, он передаётся как auth cookie.
func DoJSON(ctx context.Context, method, url string, payload any, token string) (*http.Response, []byte, error) {
	var rd io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Cookie", CookieName+"="+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, body, nil
}

// PostJSON sends a JSON POST request. If token is non-empty, it is passed as auth cookie.
func PostJSON(url string, payload any, token string) (*http.Response, []byte, error) {
	return DoJSON(context.Background(), http.MethodPost, url, payload, token)
}

// PersistAuthFromResponse извлекает auth cookie из ответа и сохраняет его в store.
func PersistAuthFromResponse(store repo.TokenStore, resp *http.Response) error {
	for _, c := range resp.Cookies() {
		if c.Name == CookieName && c.Value != "" {
			return store.Save(c.Value)
		}
	}
	return fmt.Errorf("no auth cookie in response")
}

// ErrorText достаёт поле error из JSON-ответа сервера, иначе возвращает тело как есть.
func ErrorText(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
