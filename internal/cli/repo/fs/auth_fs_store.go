package fs

import (
	"errors"
	"os"
	"path/filepath"
)

// AppDir каталог клиента внутри пользовательского конфиг-каталога.
const AppDir = "GophChat"

// AuthFSStore — файловое хранилище токена и контекста пользователя для CLI.
// TokenPath переопределяет путь к файлу токена, по умолчанию <config>/GophChat/auth_token.
type AuthFSStore struct {
	TokenPath string
}

func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, AppDir)
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", err
	}
	return p, nil
}

func (s AuthFSStore) tokenPath() (string, error) {
	if s.TokenPath != "" {
		if err := os.MkdirAll(filepath.Dir(s.TokenPath), 0o700); err != nil {
			return "", err
		}
		return s.TokenPath, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "auth_token"), nil
}

func lastLoginPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "last_login"), nil
}

// Save сохраняет auth‑токен в файл.
func (s AuthFSStore) Save(token string) error {
	p, err := s.tokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(token), 0o600)
}

// Load читает auth‑токен из файла.
func (s AuthFSStore) Load() (string, error) {
	p, err := s.tokenPath()
	if err != nil {
		return "", err
	}
	b, err := readTrimmed(p)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", errors.New("empty token file")
	}
	return string(b), nil
}

// Clear удаляет сохранённый токен (logout).
func (s AuthFSStore) Clear() error {
	p, err := s.tokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// SaveLogin сохраняет логин пользователя в файл.
func (AuthFSStore) SaveLogin(login string) error {
	if login == "" {
		return errors.New("empty login")
	}
	p, err := lastLoginPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(login), 0o600)
}

// LoadLogin читает логин пользователя из файла.
func (AuthFSStore) LoadLogin() (string, error) {
	p, err := lastLoginPath()
	if err != nil {
		return "", err
	}
	b, err := readTrimmed(p)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", errors.New("no stored login")
	}
	return string(b), nil
}

// readTrimmed читает файл и обрезает завершающие переводы строки/пробелы.
func readTrimmed(p string) ([]byte, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	for len(b) > 0 {
		c := b[len(b)-1]
		if c == '\n' || c == '\r' || c == ' ' || c == '\t' {
			b = b[:len(b)-1]
			continue
		}
		break
	}
	return b, nil
}
