package dedupe

import (
	"circl/backend/internal/repository"
)

// Field identifies a contact field that participated in a comparison.
type Field string

const (
	FieldEmail   Field = "email"
	FieldName    Field = "name"
	FieldPhone   Field = "phone"
	FieldCompany Field = "company"
)

// Similarity is the result of comparing two contacts: a score in [0,1] and
// the fields whose values actually matched.
type Similarity struct {
	Score         float64 `json:"score"`
	MatchedFields []Field `json:"matched_fields"`
}

// Compare scores the similarity of two contacts. It is symmetric in its
// arguments. Fields absent on both sides are excluded from the weighted
// average; with no comparable field at all the score is zero.
func Compare(a, b *repository.Contact, cfg Config) Similarity {
	var weightSum, scoreSum float64
	var matched []Field
	comparable := 0

	// Email: exact match after normalization, the strongest identity signal.
	if sim, ok := compareExact(NormalizeEmail(a.Email), NormalizeEmail(b.Email)); ok {
		comparable++
		weightSum += cfg.EmailWeight
		scoreSum += sim * cfg.EmailWeight
		if sim > 0 {
			matched = append(matched, FieldEmail)
		}
	}

	// Name: fuzzy edit-distance ratio, floored so unrelated names
	// contribute nothing.
	nameA, nameB := NormalizeName(&a.FullName), NormalizeName(&b.FullName)
	if nameA != NoValue || nameB != NoValue {
		comparable++
		sim := 0.0
		if nameA != NoValue && nameB != NoValue {
			sim = nameSimilarity(nameA, nameB)
			if sim < cfg.MinNameSimilarity {
				sim = 0
			}
		}
		weightSum += cfg.NameWeight
		scoreSum += sim * cfg.NameWeight
		if sim > 0 {
			matched = append(matched, FieldName)
		}
	}

	// Phone and company: supporting exact-match signals.
	if sim, ok := compareExact(NormalizePhone(a.Phone), NormalizePhone(b.Phone)); ok {
		comparable++
		weightSum += cfg.PhoneWeight
		scoreSum += sim * cfg.PhoneWeight
		if sim > 0 {
			matched = append(matched, FieldPhone)
		}
	}
	if sim, ok := compareExact(NormalizeName(a.Company), NormalizeName(b.Company)); ok {
		comparable++
		weightSum += cfg.CompanyWeight
		scoreSum += sim * cfg.CompanyWeight
		if sim > 0 {
			matched = append(matched, FieldCompany)
		}
	}

	if comparable == 0 || weightSum == 0 || len(matched) == 0 {
		return Similarity{Score: 0}
	}

	return Similarity{
		Score:         scoreSum / weightSum,
		MatchedFields: matched,
	}
}

// compareExact compares two normalized values. The second return is false
// when both sides are absent, which excludes the field from the weighted
// average entirely.
func compareExact(a, b string) (float64, bool) {
	if a == NoValue && b == NoValue {
		return 0, false
	}
	if a == NoValue || b == NoValue {
		return 0, true
	}
	if a == b {
		return 1, true
	}
	return 0, true
}

// nameSimilarity returns an edit-distance ratio in [0,1] for two normalized
// names.
func nameSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}

	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 0
	}

	dist := levenshtein(ra, rb)
	sim := 1.0 - float64(dist)/float64(maxLen)
	if sim < 0 {
		return 0
	}
	return sim
}

// levenshtein computes the per-character edit distance between two rune
// slices using a single-row DP table.
func levenshtein(a, b []rune) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr := make([]int, lb+1)
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(curr[j-1]+1, minInt(prev[j]+1, prev[j-1]+cost))
		}
		prev = curr
	}
	return prev[lb]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
