// Package handlers provides HTTP response utilities shared by domain handlers.
package handlers

import "net/http"

// RespondRaw writes an already-serialized body with the given content type.
func RespondRaw(w http.ResponseWriter, status int, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	w.Write([]byte(body))
}
