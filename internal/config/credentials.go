package config

import (
	"crypto/subtle"
	"os"
	"sync"

	"github.com/Laisky/errors/v2"
	"github.com/joho/godotenv"
)

// ErrEmptyCredentials is returned by Reset when a field is blank.
var ErrEmptyCredentials = errors.New("username and password are required")

// Credentials is the single admin identity. The values are backed by a
// KEY=value file that Reset rewrites.
type Credentials struct {
	mu       sync.RWMutex
	username string
	password string
	path     string
}

func NewCredentials(username, password, path string) *Credentials {
	return &Credentials{username: username, password: password, path: path}
}

func (c *Credentials) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

// Verify reports whether username and password match the admin identity.
func (c *Credentials) Verify(username, password string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(c.password)) == 1
	return userOK && passOK
}

// Reset writes the new identity to the backing file and then swaps the
// in-memory values. Other keys already in the file are written back as is.
func (c *Credentials) Reset(username, password string) error {
	if username == "" || password == "" {
		return ErrEmptyCredentials
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	env := map[string]string{}
	if c.path != "" {
		existing, err := godotenv.Read(c.path)
		switch {
		case err == nil:
			env = existing
		case os.IsNotExist(err):
		default:
			return errors.Wrapf(err, "read credentials file `%s`", c.path)
		}

		env[EnvAdminUsername] = username
		env[EnvAdminPassword] = password
		if err := godotenv.Write(env, c.path); err != nil {
			return errors.Wrapf(err, "write credentials file `%s`", c.path)
		}
	}

	c.username = username
	c.password = password
	return nil
}
