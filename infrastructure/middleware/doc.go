// Package middleware provides pre-built middleware for action execution.
package middleware
