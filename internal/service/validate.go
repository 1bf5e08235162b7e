package service

import "regexp"

var emailPattern = regexp.MustCompile(`^[\w-]+@(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}$`)

// ValidEmail reports whether email is syntactically acceptable
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
