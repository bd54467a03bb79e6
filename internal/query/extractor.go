// Package query turns free-text travel queries into structured constraints.
// Extraction is a fixed-priority rule cascade: swapping two rules silently
// changes query semantics, so the order is a first-class, tested contract.
package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/roam-cloud/tripdex/internal/domain"
)

// DefaultAffordableCeiling is the budget ceiling applied when a query says
// "cheap" or similar without naming a number.
const DefaultAffordableCeiling = 3500

// Extractor converts raw query text into domain.Constraints. It is stateless
// per call and safe for concurrent use.
type Extractor struct {
	affordableCeiling int
}

// New creates an extractor. A non-positive ceiling falls back to the default.
func New(affordableCeiling int) *Extractor {
	if affordableCeiling <= 0 {
		affordableCeiling = DefaultAffordableCeiling
	}
	return &Extractor{affordableCeiling: affordableCeiling}
}

// rule is one extraction step. Each writes into the record only if a
// higher-priority rule has not already set the field it targets.
type rule struct {
	name  string
	apply func(e *Extractor, q string, c *domain.Constraints)
}

// rules run top to bottom. Budget must stay ahead of duration and distance so
// numeric extraction can veto unit-suffixed numbers, and range patterns run
// inside the budget rule before single-value ones.
var rules = []rule{
	{"terms", (*Extractor).extractTerms},
	{"place", (*Extractor).extractPlace},
	{"budget", (*Extractor).extractBudget},
	{"mood", (*Extractor).extractMoods},
	{"months", (*Extractor).extractMonths},
	{"duration", (*Extractor).extractDuration},
	{"distance", (*Extractor).extractDistance},
}

// RuleOrder exposes the cascade order for tests.
func RuleOrder() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

// Extract parses the query. Blank input yields domain.ErrEmptyQuery; anything
// else succeeds — unmatched patterns leave fields unset, never fail.
func (e *Extractor) Extract(raw string) (domain.Constraints, error) {
	q := strings.ToLower(strings.TrimSpace(raw))
	if q == "" {
		return domain.Constraints{}, domain.ErrEmptyQuery
	}

	var c domain.Constraints
	for _, r := range rules {
		r.apply(e, q, &c)
	}
	return c, nil
}

// --- search terms ---

// stopWords covers articles, pronouns, filler verbs, and the unit words the
// budget/duration/distance rules consume.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "of": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "with": {}, "i": {}, "me": {},
	"my": {}, "we": {}, "us": {}, "you": {}, "am": {}, "is": {}, "are": {},
	"want": {}, "wants": {}, "need": {}, "have": {}, "looking": {}, "like": {},
	"trip": {}, "travel": {}, "place": {}, "places": {}, "somewhere": {},
	"day": {}, "days": {}, "km": {}, "rupees": {}, "rs": {}, "inr": {},
	"budget": {}, "upto": {}, "within": {}, "max": {}, "maximum": {},
	"between": {}, "from": {}, "duration": {}, "mood": {},
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)

func (e *Extractor) extractTerms(q string, c *domain.Constraints) {
	var terms []string
	for _, w := range strings.Fields(nonAlnum.ReplaceAllString(q, " ")) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if isNumeral(w) {
			continue
		}
		terms = append(terms, w)
	}
	c.Terms = terms
}

func isNumeral(w string) bool {
	for _, r := range w {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(w) > 0
}

// --- place name ---

// placeAliases is iterated in order; the first alias found wins.
var placeAliases = []struct {
	alias string
	place string
}{
	{"manali", "Manali Hill Station"},
	{"goa", "Goa Beach"},
	{"kerala", "Kerala Backwaters"},
	{"kochi", "Kerala Backwaters"},
	{"backwaters", "Kerala Backwaters"},
	{"leh", "Leh Ladakh Mountain"},
	{"ladakh", "Leh Ladakh Mountain"},
	{"ooty", "Ooty Hill Station"},
	{"shimla", "Shimla Snow Mountain"},
	{"jaipur", "Jaipur City Tour"},
	{"varanasi", "Varanasi Spiritual"},
	{"mumbai", "Mumbai Night Life"},
	{"rishikesh", "Rishikesh Yoga"},
	{"tirupathi", "Tirupathi Devotion"},
}

func (e *Extractor) extractPlace(q string, c *domain.Constraints) {
	if c.PlaceName != "" {
		return
	}
	for _, p := range placeAliases {
		if strings.Contains(q, p.alias) {
			c.PlaceName = p.place
			return
		}
	}
}

// --- budget ---

var budgetRangePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d+)\s*-\s*(\d+)\b`),
	regexp.MustCompile(`\b(\d+)\s+to\s+(\d+)\b`),
	regexp.MustCompile(`\bbetween\s+(\d+)\s+and\s+(\d+)\b`),
}

var budgetSinglePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:budget|rupees|rs|inr)[\s:]+(\d+)`),
	regexp.MustCompile(`(\d+)\s*(?:rupees|rs|inr)\b`),
	regexp.MustCompile(`(?:upto|up\s+to|within|max|maximum)\s+(?:rupees|rs)?[\s:]*(\d+)`),
	regexp.MustCompile(`\b(\d+)\b`),
}

var budgetKeywords = []string{"cheap", "afford", "budget", "friendly"}

func (e *Extractor) extractBudget(q string, c *domain.Constraints) {
	if c.HasBudget() {
		return
	}

	// Range patterns first: "1000-2000", "1000 to 2000", "between 1000 and 2000".
	for _, re := range budgetRangePatterns {
		m := re.FindStringSubmatchIndex(q)
		if m == nil {
			continue
		}
		if unitFollows(q, m[5]) {
			continue
		}
		lo, _ := strconv.Atoi(q[m[2]:m[3]])
		hi, _ := strconv.Atoi(q[m[4]:m[5]])
		if lo > hi {
			lo, hi = hi, lo
		}
		c.BudgetMin = domain.IntPtr(lo)
		c.BudgetMax = domain.IntPtr(hi)
		return
	}

	// Single-value patterns: only a ceiling. Numbers carrying a day/km unit
	// belong to the duration and distance rules.
	for _, re := range budgetSinglePatterns {
		for _, m := range re.FindAllStringSubmatchIndex(q, -1) {
			if unitFollows(q, m[3]) {
				continue
			}
			v, _ := strconv.Atoi(q[m[2]:m[3]])
			c.BudgetMax = domain.IntPtr(v)
			return
		}
	}

	// Keyword triggers only when no numeric value was found anywhere.
	for _, kw := range budgetKeywords {
		if strings.Contains(q, kw) {
			c.BudgetMax = domain.IntPtr(e.affordableCeiling)
			return
		}
	}
}

// unitFollows reports whether the text after position end reads as a
// duration or distance unit ("4 days", "1000km", "3d").
func unitFollows(q string, end int) bool {
	rest := strings.TrimLeft(q[end:], " \t:")
	for _, unit := range []string{"days", "day", "kms", "km", "d"} {
		if !strings.HasPrefix(rest, unit) {
			continue
		}
		tail := rest[len(unit):]
		if tail == "" || !isWordChar(tail[0]) {
			return true
		}
	}
	return false
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

// --- mood ---

// moodKeywords maps each category to its trigger words. Categories are
// independent: one query may activate several. Matching is by substring, so
// "snowfall" still activates nature.
var moodKeywords = []struct {
	mood     string
	keywords []string
}{
	{"adventure", []string{"adventure", "trekking", "hiking", "extreme", "thrill", "trek", "climb"}},
	{"nature", []string{"nature", "wildlife", "forest", "scenic", "landscape", "hill", "mountain", "snow"}},
	{"relaxing", []string{"relax", "chill", "peaceful", "calm", "quiet", "rest", "beach", "backwater"}},
	{"party", []string{"party", "nightlife", "disco", "club", "fun", "dance", "night"}},
	{"cultural", []string{"culture", "cultural", "heritage", "art", "museum", "city", "tour"}},
	{"history", []string{"history", "historical", "ancient", "monument", "temple"}},
	{"spiritual", []string{"spiritual", "meditation", "yoga", "zen", "peace"}},
	{"romantic", []string{"romantic", "couple", "honeymoon", "love"}},
}

func (e *Extractor) extractMoods(q string, c *domain.Constraints) {
	if len(c.Moods) > 0 {
		return
	}
	for _, mk := range moodKeywords {
		for _, kw := range mk.keywords {
			if strings.Contains(q, kw) {
				c.Moods = append(c.Moods, mk.mood)
				break
			}
		}
	}
}

// --- months and seasons ---

var monthTriggers = []struct {
	key    string
	months []string
}{
	{"january", []string{"january"}},
	{"february", []string{"february"}},
	{"march", []string{"march"}},
	{"april", []string{"april"}},
	{"may", []string{"may"}},
	{"june", []string{"june"}},
	{"july", []string{"july"}},
	{"august", []string{"august"}},
	{"september", []string{"september"}},
	{"october", []string{"october"}},
	{"november", []string{"november"}},
	{"december", []string{"december"}},
	{"winter", []string{"december", "january", "february"}},
	{"summer", []string{"march", "april", "may", "june"}},
	{"monsoon", []string{"june", "july", "august", "september"}},
	{"autumn", []string{"september", "october", "november"}},
}

func (e *Extractor) extractMonths(q string, c *domain.Constraints) {
	if len(c.Months) > 0 {
		return
	}
	seen := make(map[string]struct{})
	for _, mt := range monthTriggers {
		if !strings.Contains(q, mt.key) {
			continue
		}
		for _, m := range mt.months {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			c.Months = append(c.Months, m)
		}
	}
}

// --- duration ---

var durationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*days?\b`),
	regexp.MustCompile(`(\d+)\s*d\b`),
	regexp.MustCompile(`(?:for|duration)[\s:]*(\d+)\s*days?`),
}

func (e *Extractor) extractDuration(q string, c *domain.Constraints) {
	if c.DurationDays != nil {
		return
	}
	for _, re := range durationPatterns {
		if m := re.FindStringSubmatch(q); m != nil {
			v, _ := strconv.Atoi(m[1])
			c.DurationDays = domain.IntPtr(v)
			return
		}
	}
}

// --- distance ---

var distancePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:within|upto|up\s+to|max|maximum)[\s:]*(\d+)\s*km\b`),
	regexp.MustCompile(`(\d+)\s*km\b`),
}

func (e *Extractor) extractDistance(q string, c *domain.Constraints) {
	if c.DistanceKM != nil {
		return
	}
	for _, re := range distancePatterns {
		if m := re.FindStringSubmatch(q); m != nil {
			v, _ := strconv.Atoi(m[1])
			c.DistanceKM = domain.IntPtr(v)
			return
		}
	}
}
