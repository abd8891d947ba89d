// Package gemini реализует HTTP-клиент метода generateContent Google Generative Language API.
// Один вызов делает один HTTP-запрос, без повторов.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultBaseURL адрес публичного API.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// Параметры сэмплирования для текстовой генерации.
const (
	Temperature = 0.7
	TopK        = 40
	TopP        = 0.95
)

var (
	// ErrEmptyResponse: в ответе нет текста первого кандидата.
	ErrEmptyResponse = errors.New("gemini: empty response")
	// ErrNoImageData: в ответе нет ни одной части с inlineData.
	ErrNoImageData = errors.New("gemini: no image data in response")
)

// APIError — ответ провайдера с кодом вне 2xx. Тело сохраняется как есть.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return "API Error: " + e.Body
}

// Turn одна реплика истории в терминах провайдера (роль "user", "model" или "system").
type Turn struct {
	Role string
	Text string
}

// Image — нормализованный результат генерации изображения.
type Image struct {
	Data    string // base64 из inlineData.data
	Caption string // текстовые части ответа, может быть пустым
}

// Client выполняет запросы generateContent.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	maxOutputTokens int
}

// Option настраивает Client.
type Option func(*Client)

// WithBaseURL переопределяет адрес API (тесты, прокси).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithTimeout ограничивает время одного запроса. 0 без ограничения.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithMaxOutputTokens задаёт maxOutputTokens; при 0 поле не отправляется.
func WithMaxOutputTokens(n int) Option {
	return func(c *Client) { c.maxOutputTokens = n }
}

// WithHTTPClient подменяет http.Client целиком.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient создаёт клиента.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature        float64  `json:"temperature,omitempty"`
	TopK               int      `json:"topK,omitempty"`
	TopP               float64  `json:"topP,omitempty"`
	MaxOutputTokens    int      `json:"maxOutputTokens,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

// GenerateText отправляет историю и возвращает текст первой части первого кандидата.
func (c *Client) GenerateText(ctx context.Context, model, apiKey string, turns []Turn) (string, error) {
	req := generateRequest{
		Contents: make([]content, 0, len(turns)),
		GenerationConfig: generationConfig{
			Temperature:     Temperature,
			TopK:            TopK,
			TopP:            TopP,
			MaxOutputTokens: c.maxOutputTokens,
		},
	}
	for _, t := range turns {
		req.Contents = append(req.Contents, content{Role: t.Role, Parts: []part{{Text: t.Text}}})
	}

	body, err := c.generate(ctx, model, apiKey, req)
	if err != nil {
		return "", err
	}
	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text").String()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// GenerateImage отправляет одиночный промпт с модальностями TEXT и IMAGE.
// Первая часть с inlineData становится изображением, текстовые части становятся подписью.
func (c *Client) GenerateImage(ctx context.Context, model, apiKey, prompt string) (*Image, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	}

	body, err := c.generate(ctx, model, apiKey, req)
	if err != nil {
		return nil, err
	}

	img := &Image{}
	var captions []string
	gjson.GetBytes(body, "candidates.0.content.parts").ForEach(func(_, p gjson.Result) bool {
		if d := p.Get("inlineData.data"); d.Exists() && img.Data == "" {
			img.Data = d.String()
		}
		if t := strings.TrimSpace(p.Get("text").String()); t != "" {
			captions = append(captions, t)
		}
		return true
	})
	if img.Data == "" {
		return nil, ErrNoImageData
	}
	img.Caption = strings.Join(captions, "\n")
	return img, nil
}

func (c *Client) endpoint(model, apiKey string) string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(model), url.QueryEscape(apiKey))
}

func (c *Client) generate(ctx context.Context, model, apiKey string, payload generateRequest) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(model, apiKey), bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", stripURL(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid JSON in response")
	}
	return body, nil
}

// stripURL убирает из ошибки транспорта URL запроса: в нём ключ API.
func stripURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
