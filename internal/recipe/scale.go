package recipe

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// Scale returns amount adjusted from baseServings to servings. An amount
// with no leading number is returned unchanged. Integral results have no
// decimal point; anything else gets one decimal digit. Magnitudes from 1e21
// up are written in exponent form.
func Scale(amount, baseServings string, servings int) string {
	v, ok := parseLeadingFloat(amount)
	if !ok {
		return amount
	}
	base := ParseServings(baseServings)
	return formatAmount(v / float64(base) * float64(servings))
}

// ParseServings reads the leading integer of baseServings. Unparsable or
// non-positive values count as 1.
func ParseServings(baseServings string) int {
	n, ok := parseLeadingInt(baseServings)
	if !ok || n < 1 {
		return 1
	}
	return n
}

// FormatQuantity renders the " (amount unit)" suffix shown after an
// ingredient name. Empty when both amount and unit are blank.
func FormatQuantity(ing domain.Ingredient, baseServings string, servings int) string {
	if ing.Amount == "" && ing.Unit == "" {
		return ""
	}
	amount := Scale(ing.Amount, baseServings, servings)
	if ing.Unit == "" {
		return " (" + amount + ")"
	}
	if amount == "" {
		return " (" + ing.Unit + ")"
	}
	return " (" + amount + " " + ing.Unit + ")"
}

func formatAmount(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	case x == 0:
		return "0" // also -0
	case math.Abs(x) >= 1e21:
		return strconv.FormatFloat(x, 'g', -1, 64) // 1e+21, 1.25e+21
	case x == math.Trunc(x):
		return strconv.FormatFloat(x, 'f', -1, 64)
	}

	// Halfway cases that are exact in binary (x.25, x.75) round away from
	// zero. Everything else rounds to nearest on the exact binary value.
	if q := math.Abs(x) * 4; q == math.Trunc(q) && math.Mod(q, 2) == 1 {
		x = math.Round(x*10) / 10
	}
	return strconv.FormatFloat(x, 'f', 1, 64)
}

// parseLeadingFloat reads the longest decimal literal at the start of s
// after leading whitespace, the way a lenient number parser does:
// "250g" is 250, ".5" is 0.5, "1e3x" is 1000.
func parseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}

	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v, true // ±Inf or 0
		}
		return 0, false
	}
	return v, true
}

// parseLeadingInt reads the leading integer of s: "4 people" is 4, "4.5"
// is 4, "0x10" is 16.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base := 10
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}

	end := 0
	for end < len(s) && digitValue(s[end]) < base {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], base, 64)
	if err != nil {
		if !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		n = math.MaxInt64
	}
	if n > math.MaxInt {
		n = math.MaxInt
	}
	if neg {
		n = -n
	}
	return int(n), true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return 99
	}
}
