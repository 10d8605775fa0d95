// Package middleware provides net/http middleware for logging, panic
// recovery, header defaults and HEAD handling.
//
// Each constructor returns a func(http.Handler) http.Handler, which can be
// added to a kernel.Stack with Use or applied by hand.
package middleware
