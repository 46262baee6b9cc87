// Package ui asks the user before existing encoding declarations are replaced.
package ui
