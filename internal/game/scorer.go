package game

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/cesargomez89/lyricbot/internal/constants"
	"github.com/cesargomez89/lyricbot/internal/domain"
)

// bracketed matches "(feat. X)", "[Remix]" and similar title decorations.
var bracketed = regexp.MustCompile(`\s*[\(\[][^\)\]]*[\)\]]`)

// Scorer measures how far a guess is from the real title. Distances are in
// [0, 1] with 0 meaning identical.
type Scorer struct {
	metric           strutil.StringMetric
	FailThreshold    float64
	SuccessThreshold float64
}

func NewScorer(failThreshold, successThreshold float64) *Scorer {
	lev := metrics.NewLevenshtein()
	lev.CaseSensitive = false
	return &Scorer{
		metric:           lev,
		FailThreshold:    failThreshold,
		SuccessThreshold: successThreshold,
	}
}

// DefaultScorer uses the stock thresholds.
func DefaultScorer() *Scorer {
	return NewScorer(constants.DefaultFailThreshold, constants.DefaultSuccessThreshold)
}

// Score returns the distance between guess and title. The guess is compared
// with every run of consecutive title words and the closest run wins, so a
// correct part of a title scores like the whole of it. ok is false when either
// side has nothing comparable left after normalisation.
func (s *Scorer) Score(guess, title string) (distance float64, ok bool) {
	g := Normalize(guess)
	if g == "" {
		return 0, false
	}

	forms := titleForms(title)
	if len(forms) == 0 {
		return 0, false
	}

	best := 1.0
	for _, form := range forms {
		for _, span := range wordSpans(form) {
			if d := 1 - strutil.Similarity(g, span, s.metric); d < best {
				best = d
			}
		}
	}
	return clamp(best), true
}

// Classify maps a score onto a tier. An undefined score fails.
func (s *Scorer) Classify(distance float64, ok bool) domain.Tier {
	switch {
	case !ok || distance > s.FailThreshold:
		return domain.TierFail
	case distance < s.SuccessThreshold:
		return domain.TierSuccess
	default:
		return domain.TierAmbiguous
	}
}

// Judge scores and classifies in one step.
func (s *Scorer) Judge(guess, title string) (domain.Tier, float64, bool) {
	distance, ok := s.Score(guess, title)
	return s.Classify(distance, ok), distance, ok
}

// Normalize folds case, strips accents and punctuation and collapses spaces.
func Normalize(s string) string {
	s = cases.Fold().String(norm.NFKD.String(s))

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		default:
			space = true
		}
	}
	return norm.NFC.String(b.String())
}

// titleForms lists the accepted spellings of a title: as released and
// without bracketed decorations.
func titleForms(title string) []string {
	var forms []string
	if full := Normalize(title); full != "" {
		forms = append(forms, full)
	}
	if bare := Normalize(bracketed.ReplaceAllString(title, "")); bare != "" && (len(forms) == 0 || bare != forms[0]) {
		forms = append(forms, bare)
	}
	return forms
}

// wordSpans lists every run of consecutive words in a normalised string,
// the whole string included.
func wordSpans(s string) []string {
	words := strings.Fields(s)
	spans := make([]string, 0, len(words)*(len(words)+1)/2)
	for i := range words {
		for j := i + 1; j <= len(words); j++ {
			spans = append(spans, strings.Join(words[i:j], " "))
		}
	}
	return spans
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
