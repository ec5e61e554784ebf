// Package cli implements the interactive command-line front end of bizdesk.
//
// The REPL reads one command per line and dispatches it to the auth engine:
//
//	help, status, login, register, forgot, profile, update, logout, keys,
//	reset, exit | quit
//
// Passwords are read without echo and wiped from memory after use.
package cli
