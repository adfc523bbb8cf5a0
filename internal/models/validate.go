package models

import "regexp"

var (
	wasteCodeRe = regexp.MustCompile(`^[A-Z]{2}\d{4}$`)
	phoneRe     = regexp.MustCompile(`^\+?1?\d{9,15}$|^\(\d{3}\)\s\d{3}-\d{4}$|^\d{3}-\d{3}-\d{4}$`)
	emailRe     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidWasteCode checks the two-letters-four-digits waste code format (e.g. AB1234).
func ValidWasteCode(code string) bool {
	return wasteCodeRe.MatchString(code)
}

func ValidPhoneNumber(phone string) bool {
	return phoneRe.MatchString(phone)
}

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func ValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
