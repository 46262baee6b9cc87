// Package logging provides concrete implementations of the pep263.Logger interface.
package logging
