package config

import (
	"flag"

	"github.com/dmitrijs2005/storefront/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string     HTTP bind address (e.g. ":3000")
//	-d string     PostgreSQL DSN
//	-s string     token signing secret
//	-t duration   token TTL (e.g. "72h")
//	-k int        bcrypt cost
//	-u string     S3 root user
//	-p string     S3 root password
//	-b string     S3 bucket
//	-g string     S3 region
//	-e string     S3 base endpoint
//
// Arguments not listed here are filtered out first so that -c/-config and
// flags of other components do not trip the parser.
func parseFlags(config *Config, args []string) {
	filtered := flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-k", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	fs.DurationVar(&config.TokenTTL, "t", config.TokenTTL, "token validity duration")
	fs.IntVar(&config.PasswordCost, "k", config.PasswordCost, "bcrypt cost")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(filtered); err != nil {
		panic(err)
	}
}
