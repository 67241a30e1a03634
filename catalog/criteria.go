package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/propertytek/chatflow/types"
)

var (
	bedroomsRe  = regexp.MustCompile(`\b(\d+)\s*(?:bed|beds|bedroom|bedrooms|br)\b`)
	rentRangeRe = regexp.MustCompile(`\$?\s*(\d{3,5})\s*(?:-|to)\s*\$?\s*(\d{3,5})`)
	rentUnderRe = regexp.MustCompile(`(?:under|below|less than|max|up to)\s*\$?\s*(\d{3,5})`)
	rentOverRe  = regexp.MustCompile(`(?:over|above|more than|at least|min)\s*\$?\s*(\d{3,5})`)
	rentExactRe = regexp.MustCompile(`(?:for|at|around|rent of)?\s*\$\s*(\d{3,5})\b`)
	dateRe      = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
)

// ExtractCriteria parses search filters out of free-form text. It is a
// heuristic pass: anything it cannot recognize stays zero and the search
// node decides what to ask for next.
func ExtractCriteria(text string) types.Criteria {
	var c types.Criteria
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return c
	}

	if strings.Contains(t, "studio") {
		c.Bedrooms = 1
	}
	if m := bedroomsRe.FindStringSubmatch(t); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 && n < 10 {
			c.Bedrooms = n
		}
	}

	if m := rentRangeRe.FindStringSubmatch(t); m != nil {
		lo, _ := strconv.ParseFloat(m[1], 64)
		hi, _ := strconv.ParseFloat(m[2], 64)
		if lo > 0 && hi >= lo {
			c.RentMin, c.RentMax = lo, hi
		}
	} else if m := rentUnderRe.FindStringSubmatch(t); m != nil {
		c.RentMax, _ = strconv.ParseFloat(m[1], 64)
	} else if m := rentOverRe.FindStringSubmatch(t); m != nil {
		c.RentMin, _ = strconv.ParseFloat(m[1], 64)
	} else if m := rentExactRe.FindStringSubmatch(t); m != nil {
		c.RentExact, _ = strconv.ParseFloat(m[1], 64)
	}

	switch {
	case strings.Contains(t, "no pets") || strings.Contains(t, "no pet"):
		c.Pets = "No Pets"
	case strings.Contains(t, "cat") && strings.Contains(t, "dog"):
		c.Pets = "Cats and Dogs"
	case strings.Contains(t, "cat"):
		c.Pets = "Cats"
	case strings.Contains(t, "dog"):
		c.Pets = "Dogs"
	}

	for _, city := range TexasCities {
		if strings.Contains(t, strings.ToLower(city)) {
			c.City = city
			break
		}
	}
	if c.City == "" {
		if loc := extractForeignCity(t); loc != "" {
			c.City = loc
		}
	}

	if m := dateRe.FindStringSubmatch(t); m != nil {
		c.AvailableDate = m[1]
	}

	return c
}

var inCityRe = regexp.MustCompile(`\bin\s+([a-z][a-z\s]{1,20}?)(?:$|[,.?!]|\s+(?:with|under|over|for|and|that)\b)`)

// extractForeignCity picks up "in <place>" phrases for locations outside
// the served markets, so the search node can redirect them explicitly.
func extractForeignCity(t string) string {
	m := inCityRe.FindStringSubmatch(t)
	if m == nil {
		return ""
	}
	loc := strings.TrimSpace(m[1])
	// Common non-location phrases that follow "in".
	for _, stop := range []string{"a ", "an ", "the ", "my ", "your "} {
		loc = strings.TrimPrefix(loc, stop)
	}
	loc = strings.TrimSpace(loc)
	if len(loc) < 3 {
		return ""
	}
	words := strings.Fields(loc)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// HasPropertyHints reports whether the text carries any housing signal.
// The search node uses it to avoid reusing stale filters on turns that
// are not about property at all.
func HasPropertyHints(text string) bool {
	t := strings.ToLower(text)
	if t == "" {
		return false
	}
	for _, k := range []string{"bed", "bedroom", "br ", "studio", "apartment", "house", "condo", "rental", "rent", "lease", "property"} {
		if strings.Contains(t, k) {
			return true
		}
	}
	return bedroomsRe.MatchString(t)
}

// LooksNonProperty screens for retail/e-commerce vocabulary that signals
// the request is not about housing.
func LooksNonProperty(text string) bool {
	t := strings.ToLower(text)
	for _, k := range []string{
		"tshirt", "t-shirt", "shirt", "jeans", "makeup", "lipstick", "iphone", "android", "laptop",
		"macbook", "headphones", "earbuds", "charger", "grocery", "groceries", "fruits", "vegetables",
		"milk", "perfume", "shampoo", "soap", "toothpaste", "toys", "gaming", "electronics", "camera",
		"television", "tv",
	} {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}
