package booking

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRe      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneStripRe = regexp.MustCompile(`[\s\-().+]`)
	digitsRe     = regexp.MustCompile(`^\d+$`)
)

// Numbers nobody actually has.
var fakePhones = map[string]bool{
	"1234567890": true,
	"0000000000": true,
	"1111111111": true,
}

// ValidateField checks one contact field and returns a user-facing error
// message, or "" when the value is acceptable.
func ValidateField(field, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		label := field
		if label != "" {
			label = strings.ToUpper(label[:1]) + label[1:]
		}
		return label + " is required"
	}

	switch field {
	case "name":
		switch {
		case len(value) < 2:
			return "Name must be at least 2 characters long"
		case len(value) > 100:
			return "Name is too long (maximum 100 characters)"
		case !alphaName(value):
			return "Name can only contain letters, spaces, hyphens, and apostrophes"
		}
	case "email":
		switch {
		case !emailRe.MatchString(value):
			return "Please enter a valid email address (e.g., john@example.com)"
		case len(value) > 254:
			return "Email address is too long"
		}
	case "phone":
		clean := phoneStripRe.ReplaceAllString(value, "")
		switch {
		case !digitsRe.MatchString(clean):
			return "Phone number can only contain digits and formatting characters"
		case len(clean) < 10:
			return "Phone number must be at least 10 digits"
		case len(clean) > 15:
			return "Phone number is too long"
		case fakePhones[clean]:
			return "Please enter a valid phone number"
		}
	case "pets":
		if len(value) > 200 {
			return "Pet information is too long (maximum 200 characters)"
		}
	}
	return ""
}

func alphaName(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || r == ' ' || r == '-' || r == '\'' {
			continue
		}
		return false
	}
	return true
}
