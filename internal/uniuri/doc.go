// Package uniuri generates random strings from a fixed alphabet without
// modulo bias, used for session ids and initial admin passwords.
package uniuri
