package crypto

import (
	"os"

	"github.com/juju/errors"
)

// envKeyring reads the key from KeyEnv. It can not store anything.
type envKeyring struct{}

// GetKey retrieves the encryption key from the environment
func (k *envKeyring) GetKey() (string, error) {
	key := os.Getenv(KeyEnv)
	if key == "" {
		return "", errors.NotFoundf("%s environment variable", KeyEnv)
	}
	return key, nil
}

// SetKey tells the user to export the key instead
func (k *envKeyring) SetKey(password string) error {
	if password == "" {
		return errors.NewNotValid(nil, "password cannot be empty")
	}
	return errors.NewNotSupported(nil, "no keyring on this platform: export "+KeyEnv+" to keep the key")
}

// DeleteKey tells the user to unset the variable instead
func (k *envKeyring) DeleteKey() error {
	return errors.NewNotSupported(nil, "no keyring on this platform: unset "+KeyEnv+" manually")
}

// IsAvailable reports whether KeyEnv is set
func (k *envKeyring) IsAvailable() bool {
	return os.Getenv(KeyEnv) != ""
}
