package db

import "regexp"

var dsnPassword = regexp.MustCompile(`:([^:@/]+)@`)

// MaskDSN hides the password part of a connection URL for logging.
func MaskDSN(dsn string) string {
	return dsnPassword.ReplaceAllString(dsn, ":****@")
}
