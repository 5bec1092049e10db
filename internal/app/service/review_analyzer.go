package service

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/ikkim/animeroast-backend/internal/app/model"
	"github.com/ikkim/animeroast-backend/pkg/anilist"
	"github.com/ikkim/animeroast-backend/pkg/util"
)

const (
	maxCriticisms      = 5
	maxCriticismLength = 100
	maxSpicyQuotes     = 2
	maxQuoteLength     = 200
	maxSummaryLength   = 500
	minQuoteLength     = 20
	maxRating          = 10.0
)

type criticismCategory struct {
	name     string
	keywords []string
}

// ordered so equal counts rank deterministically
var criticismCategories = []criticismCategory{
	{"pacing", []string{"pacing", "slow", "rushed", "dragging", "filler", "boring", "pace"}},
	{"plot", []string{"plot holes", "inconsistent", "makes no sense", "confusing", "predictable", "cliche", "trope"}},
	{"characters", []string{"character development", "shallow", "one-dimensional", "annoying", "unlikable", "bland", "mary sue", "gary stu"}},
	{"animation", []string{"animation", "art", "budget", "quality drop", "off-model", "still frames"}},
	{"ending", []string{"ending", "rushed ending", "disappointing ending", "finale"}},
	{"power_scaling", []string{"power creep", "asspull", "plot armor", "convenient", "deus ex machina"}},
}

var toxicPhrases = []string{
	"mid", "cope", "copium", "carried by", "fell off", "peaked at", "read the manga",
	"friendship power", "talk no jutsu", "truck-kun", "nothing happens", "down bad",
	"least horny", "entry-level", "normie", "filtered", "toxic fanbase", "defend anything",
	"wasted potential", "overrated", "overhyped",
}

var negativeWords = []string{"terrible", "awful", "garbage", "trash", "worst", "disappointing", "waste", "regret"}

var humorIndicators = []string{"lmao", "lol", "bruh", "literally", "somehow"}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// ReviewAnalyzer condenses community reviews into prompt material.
type ReviewAnalyzer struct{}

// Analyze returns nil when there are no reviews.
func (ReviewAnalyzer) Analyze(reviews []anilist.Review) *model.ReviewAnalysis {
	if len(reviews) == 0 {
		return nil
	}

	analysis := &model.ReviewAnalysis{
		ReviewCount:   len(reviews),
		AverageRating: averageRating(reviews),
		TopCriticisms: topCriticisms(reviews),
		SpicyQuotes:   spicyQuotes(reviews),
	}
	analysis.Summary = summarize(analysis)
	return analysis
}

func reviewText(r anilist.Review) string {
	if strings.TrimSpace(r.Body) != "" {
		return util.StripHTML(r.Body)
	}
	return util.StripHTML(r.Summary)
}

// averageRating maps AniList's 0..100 review score onto 0..10.
func averageRating(reviews []anilist.Review) float64 {
	sum, n := 0, 0
	for _, r := range reviews {
		if r.Score > 0 {
			sum += r.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)) / 10
}

func topCriticisms(reviews []anilist.Review) []string {
	counts := make(map[string]int)
	for _, r := range reviews {
		text := strings.ToLower(reviewText(r) + " " + r.Summary)
		for _, cat := range criticismCategories {
			for _, kw := range cat.keywords {
				if strings.Contains(text, kw) {
					counts[cat.name]++
					break
				}
			}
		}
	}

	names := make([]string, 0, len(counts))
	for _, cat := range criticismCategories {
		if counts[cat.name] > 0 {
			names = append(names, cat.name)
		}
	}
	sort.SliceStable(names, func(i, j int) bool { return counts[names[i]] > counts[names[j]] })

	if len(names) > maxCriticisms {
		names = names[:maxCriticisms]
	}
	return names
}

type scoredQuote struct {
	text  string
	score int
}

func spicyQuotes(reviews []anilist.Review) []string {
	var quotes []scoredQuote
	for _, r := range reviews {
		for _, sentence := range sentenceSplit.Split(reviewText(r), -1) {
			sentence = strings.Join(strings.Fields(sentence), " ")
			n := util.RuneLen(sentence)
			if n < minQuoteLength || n > maxQuoteLength {
				continue
			}

			lower := strings.ToLower(sentence)
			score := 2*countContains(lower, toxicPhrases) +
				countContains(lower, negativeWords) +
				countContains(lower, humorIndicators)
			if score >= 2 {
				quotes = append(quotes, scoredQuote{text: sentence, score: score})
			}
		}
	}

	sort.SliceStable(quotes, func(i, j int) bool { return quotes[i].score > quotes[j].score })

	out := make([]string, 0, maxSpicyQuotes)
	for _, q := range quotes {
		if len(out) == maxSpicyQuotes {
			break
		}
		out = append(out, q.text)
	}
	return out
}

func countContains(s string, needles []string) int {
	n := 0
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			n++
		}
	}
	return n
}

func summarize(a *model.ReviewAnalysis) string {
	var parts []string
	if a.AverageRating > 0 {
		parts = append(parts, fmt.Sprintf("Average rating: %.1f/10", a.AverageRating))
	}
	if len(a.TopCriticisms) > 0 {
		top := a.TopCriticisms
		if len(top) > 3 {
			top = top[:3]
		}
		parts = append(parts, "Main complaints: "+strings.Join(top, ", "))
	}
	switch {
	case a.AverageRating == 0:
	case a.AverageRating >= 8:
		parts = append(parts, "Community sentiment: beloved")
	case a.AverageRating >= 6:
		parts = append(parts, "Community sentiment: mixed")
	default:
		parts = append(parts, "Community sentiment: mixed to negative")
	}
	if len(parts) == 0 {
		return "Community reviews analyzed"
	}
	return strings.Join(parts, " | ")
}

// SanitizeAnalysis bounds every field and scrubs every string so the
// analysis can be interpolated into a prompt.
func SanitizeAnalysis(a *model.ReviewAnalysis) *model.ReviewAnalysis {
	if a == nil {
		return nil
	}

	out := &model.ReviewAnalysis{
		ReviewCount:   a.ReviewCount,
		AverageRating: math.Max(0, math.Min(maxRating, a.AverageRating)),
		TopCriticisms: make([]string, 0, maxCriticisms),
		SpicyQuotes:   make([]string, 0, maxSpicyQuotes),
		Summary:       util.SanitizeForPrompt(a.Summary, maxSummaryLength),
	}
	if out.ReviewCount < 0 {
		out.ReviewCount = 0
	}
	for _, c := range a.TopCriticisms {
		if len(out.TopCriticisms) == maxCriticisms {
			break
		}
		if c = util.SanitizeForPrompt(c, maxCriticismLength); c != "" {
			out.TopCriticisms = append(out.TopCriticisms, c)
		}
	}
	for _, q := range a.SpicyQuotes {
		if len(out.SpicyQuotes) == maxSpicyQuotes {
			break
		}
		if q = util.SanitizeForPrompt(q, maxQuoteLength); q != "" {
			out.SpicyQuotes = append(out.SpicyQuotes, q)
		}
	}
	return out
}
