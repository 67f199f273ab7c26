package vault

import "fmt"

const DefaultPort = 5432

// Connection holds the non-secret attributes of a stored connection.
// The password is never part of this struct; it lives in the active
// SecretBackend keyed by the connection name.
type Connection struct {
	Name     string `json:"-"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	IAMAuth  bool   `json:"iam_auth,omitempty"`
}

func (c *Connection) Validate() error {
	if c.Name == "" {
		return &ValidationError{"name can not be empty"}
	}
	if c.Host == "" {
		return &ValidationError{"host can not be empty"}
	}
	if c.Database == "" {
		return &ValidationError{"database can not be empty"}
	}
	if c.Username == "" {
		return &ValidationError{"username can not be empty"}
	}
	if c.Port < 0 || c.Port > 65535 {
		return &ValidationError{fmt.Sprintf("invalid port %d", c.Port)}
	}
	return nil
}

// Addr returns the host:port pair, applying the default port if unset.
func (c *Connection) Addr() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("%s:%d", c.Host, port)
}

// AuthType is the human-readable authentication kind, used in listings.
func (c *Connection) AuthType() string {
	if c.IAMAuth {
		return "IAM"
	}
	return "Password"
}
