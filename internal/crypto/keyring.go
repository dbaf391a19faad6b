package crypto

import "os"

// Keyring provides secure key storage abstraction
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
	IsAvailable() bool
}

const (
	ServiceName = "oficina"
	KeyName     = "db-encryption-key"

	// KeyEnv overrides the platform keyring on every platform
	KeyEnv = "OFICINA_DB_KEY"
)

// NewKeyring returns the environment keyring when KeyEnv is set and the
// best platform implementation otherwise
func NewKeyring() Keyring {
	if os.Getenv(KeyEnv) != "" {
		return &envKeyring{}
	}
	return newPlatformKeyring()
}
