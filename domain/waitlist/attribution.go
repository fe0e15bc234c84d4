package waitlist

import (
	"net/url"
	"strings"

	"github.com/akeren/waitlist-foundry/pkg/constants"
)

var utmKeys = [...]string{"utm_source", "utm_medium", "utm_campaign"}

// AttributeSource combines the client's label, the referrer and any UTM tags the
// referrer carries into one human-readable string. It never fails.
func AttributeSource(label any, referrer string) string {
	base := constants.DirectSource
	if s, ok := label.(string); ok && s != "" {
		base = s
	} else if referrer != "" {
		base = referrer
	}

	if referrer == "" {
		return base
	}

	u, err := url.Parse(referrer)
	if err != nil || !u.IsAbs() {
		return base
	}

	query := parseSearchParams(u.RawQuery)
	tags := make([]string, 0, len(utmKeys))
	for _, key := range utmKeys {
		if v := query[key]; v != "" {
			tags = append(tags, key+"="+v)
		}
	}

	if len(tags) == 0 {
		return base
	}

	return base + " | " + strings.Join(tags, "&")
}

// parseSearchParams reads a raw query the way browsers do: only '&' separates pairs,
// '+' is a space and broken percent escapes stay literal. The first value per key wins.
// url.ParseQuery drops pairs containing ';' or bad escapes, which loses real UTM tags.
func parseSearchParams(rawQuery string) map[string]string {
	params := make(map[string]string)
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		name = decodeSearchComponent(name)
		if _, seen := params[name]; !seen {
			params[name] = decodeSearchComponent(value)
		}
	}
	return params
}

func decodeSearchComponent(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	if !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return strings.ToValidUTF8(b.String(), "\uFFFD")
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}
