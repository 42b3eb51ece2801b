// Package main provides the entry point of TaskFlow.
// It runs a Fiber web service offering signup, login and logout with
// email and password accounts stored through gorm, and session based
// login state kept in a Fiber storage backend.
package main
