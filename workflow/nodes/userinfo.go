package nodes

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/propertytek/chatflow/workflow"
)

// UserInfoCollector pulls booking contact details out of the turn and
// reports which required fields are still missing.
type UserInfoCollector struct {
	logger *zap.Logger
}

var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)my name is ([a-zA-Z\s]+)`),
		regexp.MustCompile(`(?i)i'm ([a-zA-Z\s]+)`),
		regexp.MustCompile(`(?i)i am ([a-zA-Z\s]+)`),
		regexp.MustCompile(`(?i)name:\s*([a-zA-Z\s]+)`),
	}
	emailRe       = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+?1?[-.\s]?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`),
		regexp.MustCompile(`\d{10}`),
	}
	petsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)i have (no pets?|cats? and dogs?|cats?|dogs?)`),
		regexp.MustCompile(`(?i)pets?:\s*(no|none|cats? and dogs?|cats?|dogs?)`),
		regexp.MustCompile(`(?i)\b(no pets|cats? and dogs?|cats|dogs)\b`),
	}
	nonDigitRe = regexp.MustCompile(`[^\d+]`)
)

func (n *UserInfoCollector) Execute(_ context.Context, st workflow.State, _ workflow.RunConfig) (workflow.Delta, error) {
	info := make(map[string]string, len(st.UserInfo)+4)
	for k, v := range st.UserInfo {
		info[k] = v
	}

	q := st.UserQuery
	ql := strings.ToLower(q)
	if st.ActionType == "provide_info" ||
		strings.Contains(ql, "my name is") ||
		strings.Contains(ql, "email") ||
		strings.Contains(ql, "phone") ||
		extractEmail(q) != "" || extractPhone(q) != "" {
		for k, v := range ExtractContactInfo(q) {
			info[k] = v
		}
	}

	var missing []string
	for _, f := range []string{"name", "email", "phone"} {
		if info[f] == "" {
			missing = append(missing, f)
		}
	}

	d := workflow.NewDelta().
		UserInfo(info).
		UserName(info["name"]).
		UserEmail(info["email"]).
		UserPhone(info["phone"]).
		UserPets(info["pets"])

	if len(missing) > 0 {
		n.logger.Info("still missing user info", zap.Strings("missing", missing))
		return d.
			CurrentStep("info_collection").
			RequiresUserInfo(true).
			MissingFields(missing).
			NextStep(workflow.NodeGenerateResponse), nil
	}

	n.logger.Info("all user info collected, proceeding to booking")
	return d.
		CurrentStep("booking_confirmation").
		RequiresUserInfo(false).
		MissingFields(nil).
		NextStep(workflow.NodeCreateCalendarEvent), nil
}

// ExtractContactInfo parses name, email, phone and pet details from free
// text. Only fields it finds are present in the result. Shared with the
// booking flow's info collection step.
func ExtractContactInfo(text string) map[string]string {
	out := make(map[string]string)
	for _, re := range namePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			out["name"] = titleCase(strings.TrimSpace(m[1]))
			break
		}
	}
	if email := extractEmail(text); email != "" {
		out["email"] = email
	}
	if phone := extractPhone(text); phone != "" {
		out["phone"] = phone
	}
	if pets := extractPets(text); pets != "" {
		out["pets"] = pets
	}
	return out
}

func extractEmail(text string) string {
	return strings.ToLower(emailRe.FindString(text))
}

func extractPhone(text string) string {
	for _, re := range phonePatterns {
		m := re.FindString(text)
		if m == "" {
			continue
		}
		phone := nonDigitRe.ReplaceAllString(m, "")
		switch {
		case len(phone) == 10:
			phone = "+1" + phone
		case len(phone) == 11 && strings.HasPrefix(phone, "1"):
			phone = "+" + phone
		}
		return phone
	}
	return ""
}

func extractPets(text string) string {
	for _, re := range petsPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		p := strings.ToLower(m[1])
		switch {
		case strings.Contains(p, "no"), strings.Contains(p, "none"):
			return "No Pets"
		case strings.Contains(p, "cat") && strings.Contains(p, "dog"):
			return "Cats and Dogs"
		case strings.Contains(p, "cat"):
			return "Cats"
		case strings.Contains(p, "dog"):
			return "Dogs"
		}
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
