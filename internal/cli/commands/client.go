package commands

import (
	"GophChat/internal/cli/repo/fs"
	"GophChat/internal/cli/service"
	"GophChat/internal/config"
)

// newClient собирает клиента API с файловым хранилищем токена.
func newClient(cfg *config.Config) *service.Client {
	return service.NewClient(cfg.ServerURL, fs.AuthFSStore{TokenPath: cfg.TokenFile})
}
