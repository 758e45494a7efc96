package payment

import "strings"

const maskedCvv = "***"

func lastFour(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}

// maskCardNumber keeps the last four digits.
func maskCardNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("*", len(number)-4) + lastFour(number)
}
