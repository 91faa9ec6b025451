package config

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid configuration")

var ErrMissingDomain = fmt.Errorf(
	"%w: directory domain is not set. Set OKTA_DOMAIN or directory.domain", ErrInvalidConfig)

var ErrMissingAPIToken = fmt.Errorf(
	"%w: API token is not set. Set API_TOKEN or directory.api_token", ErrInvalidConfig)
