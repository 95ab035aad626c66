package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/storefront/internal/flagx"
	"github.com/dmitrijs2005/storefront/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations are
// accepted as strings such as "72h" or as integer nanoseconds. Fields left
// out of the file keep their current value.
type JsonConfig struct {
	EndpointAddrHTTP *string         `json:"endpoint_addr_http"`
	DatabaseDSN      *string         `json:"database_dsn"`
	SecretKey        *string         `json:"secret_key"`
	TokenTTL         *timex.Duration `json:"token_ttl"`
	PasswordCost     *int            `json:"password_cost"`
	S3RootUser       *string         `json:"s3_root_user"`
	S3RootPassword   *string         `json:"s3_root_password"`
	S3Bucket         *string         `json:"s3_bucket"`
	S3Region         *string         `json:"s3_region"`
	S3BaseEndpoint   *string         `json:"s3_base_endpoint"`
	PaymentCurrency  *string         `json:"payment_currency"`
}

// parseJson overlays values from the file named by -c/-config. Without the
// flag nothing is loaded. An unreadable or malformed file panics: the server
// must not start on a half-applied configuration.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}
	if err := LoadJSON(config, path); err != nil {
		panic(err)
	}
}

// LoadJSON overlays config with the values present in the JSON file at path.
func LoadJSON(config *Config, path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.PasswordCost != nil {
		config.PasswordCost = *c.PasswordCost
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.PaymentCurrency, c.PaymentCurrency)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
