// Package cli implements the credseal command-line tool.
//
// Commands:
//   - migrate: create or upgrade both credential tables
//   - useradd: provision a user with a sealed Argon2id credential
//   - login: verify a username and password
//   - keygen: print fresh key material for deployment
//   - config: print the effective configuration with secrets masked
//   - version: print build information
//
// Passwords are read from the terminal without echo. When stdin is not a
// terminal they are read one per line, which keeps the tool scriptable.
package cli
