// Package authsdk is a Go client for the gatehouse authentication service.
// It wraps the HTTP API, signup through logout, and takes care of moving
// the session token through the auth cookie.
package authsdk
