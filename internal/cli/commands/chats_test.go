package commands

import (
	"GophChat/internal/cli/repo/fs"
	"GophChat/internal/config"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeServer — минимальная имитация API чатов.
func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie("auth_token"); err != nil || c.Value != "tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			h(w, r)
		}
	}
	writeJSON := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}

	mux.HandleFunc("GET /api/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `[{"id":"m1","name":"Model One"},{"id":"img","name":"Img","supports_image_output":true}]`)
	})
	mux.HandleFunc("GET /api/chats", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `[{"id":"c1","title":"Plans","model":"m1","updated_at":"2025-01-01T10:00:00Z"}]`)
	}))
	mux.HandleFunc("POST /api/chats", authed(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["title"] != "Trip to Rome" || req["model"] != "m1" {
			t.Errorf("unexpected create payload: %v", req)
		}
		writeJSON(w, 201, `{"id":"c2","title":"Trip to Rome","model":"m1"}`)
	}))
	mux.HandleFunc("DELETE /api/chats/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "c1" {
			writeJSON(w, 404, `{"error":"not found"}`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /api/chats/c1/messages", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `[{"id":"a","role":"user","content_type":"text","content":"a cat"},
			{"id":"b","role":"assistant","content_type":"image","content":"Here it is","image_data":"QUJD"}]`)
	}))
	mux.HandleFunc("POST /api/chats/c1/send", authed(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["text"] == "fail please" {
			writeJSON(w, 502, `{"error":"API Error: quota exceeded"}`)
			return
		}
		writeJSON(w, 200, `{"text":"echo: `+req["text"]+`"}`)
	}))
	mux.HandleFunc("GET /api/keys", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `[{"id":"k1","provider":"google","key_name":"main","is_active":true}]`)
	}))
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func loggedIn(t *testing.T) *config.Config {
	t.Helper()
	withTempConfig(t)
	ts := fakeServer(t)
	cfg := &config.Config{ServerURL: ts.URL}
	if err := (fs.AuthFSStore{}).Save("tok"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	return cfg
}

func TestChatCommands(t *testing.T) {
	cfg := loggedIn(t)
	ctx := context.Background()

	out := withStdoutCapture(t, func() {
		if err := (modelsCmd{}).Run(ctx, cfg, nil); err != nil {
			t.Fatalf("models: %v", err)
		}
	})
	if !strings.Contains(out, "m1") || !strings.Contains(out, "(default)") || !strings.Contains(out, "[image]") {
		t.Fatalf("models output: %s", out)
	}

	out = withStdoutCapture(t, func() {
		if err := (chatsCmd{}).Run(ctx, cfg, nil); err != nil {
			t.Fatalf("chats: %v", err)
		}
	})
	if !strings.Contains(out, "c1") || !strings.Contains(out, "Plans") {
		t.Fatalf("chats output: %s", out)
	}

	out = withStdoutCapture(t, func() {
		if err := (newChatCmd{}).Run(ctx, cfg, []string{"m1", "Trip", "to", "Rome"}); err != nil {
			t.Fatalf("new-chat: %v", err)
		}
	})
	if !strings.Contains(out, "Created chat c2") {
		t.Fatalf("new-chat output: %s", out)
	}

	if err := (deleteCmd{}).Run(ctx, cfg, []string{"c1"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := (deleteCmd{}).Run(ctx, cfg, []string{"zzz"}); err == nil || err.Error() != "not found" {
		t.Fatalf("delete of unknown chat must fail with server text, got %v", err)
	}
	if err := (deleteCmd{}).Run(ctx, cfg, nil); err != ErrUsage {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}

func TestSendAndMessagesCommands(t *testing.T) {
	cfg := loggedIn(t)
	ctx := context.Background()

	out := withStdoutCapture(t, func() {
		if err := (sendCmd{}).Run(ctx, cfg, []string{"c1", "hello", "there"}); err != nil {
			t.Fatalf("send: %v", err)
		}
	})
	if strings.TrimSpace(out) != "echo: hello there" {
		t.Fatalf("send output: %q", out)
	}

	err := (sendCmd{}).Run(ctx, cfg, []string{"c1", "fail please"})
	if err == nil || err.Error() != "API Error: quota exceeded" {
		t.Fatalf("send must surface provider error, got %v", err)
	}

	dir := filepath.Join(t.TempDir(), "imgs")
	out = withStdoutCapture(t, func() {
		if err := (messagesCmd{}).Run(ctx, cfg, []string{"c1", "--save-images", dir}); err != nil {
			t.Fatalf("messages: %v", err)
		}
	})
	if !strings.Contains(out, "user:") || !strings.Contains(out, "[image] Here it is") {
		t.Fatalf("messages output: %s", out)
	}
	b, err := os.ReadFile(filepath.Join(dir, "b.png"))
	if err != nil || string(b) != "ABC" {
		t.Fatalf("image not saved: %q %v", b, err)
	}
}

func TestKeysCommand_And_NotLoggedIn(t *testing.T) {
	cfg := loggedIn(t)
	ctx := context.Background()

	out := withStdoutCapture(t, func() {
		if err := (keysCmd{}).Run(ctx, cfg, nil); err != nil {
			t.Fatalf("keys: %v", err)
		}
	})
	if !strings.Contains(out, "main") || !strings.Contains(out, "active") {
		t.Fatalf("keys output: %s", out)
	}

	// без токена запрос не уходит на сервер
	if err := (fs.AuthFSStore{}).Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := (keysCmd{}).Run(ctx, cfg, nil); err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Fatalf("expected not logged in, got %v", err)
	}
}
