package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownDBEngine error if config db.engine is not one of mysql, postgres or sqlite.
	ErrUnknownDBEngine = errors.New("toml config db.engine must be mysql, postgres or sqlite")

	// ErrInvalidCookieEncryptionKey error if webserver.cookieencryptionkey is not a base64 AES key.
	ErrInvalidCookieEncryptionKey = errors.New(
		"toml config webserver.cookieencryptionkey must be a base64 encoded 16, 24 or 32 byte key",
	)
)
