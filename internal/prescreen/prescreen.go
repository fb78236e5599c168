package prescreen

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/discloscan/discloscan/internal/models"
)

var analyzer = govader.NewSentimentIntensityAnalyzer()

// Hashtags the FTC endorsement guides treat as disclosure attempts.
// Lowercased, without the leading '#'.
var disclosureTags = map[string]struct{}{
	"ad":              {},
	"advert":          {},
	"advertising":     {},
	"sponsored":       {},
	"sponsor":         {},
	"partner":         {},
	"paidpartnership": {},
	"gifted":          {},
	"affiliate":       {},
}

// Scan runs the deterministic local prescreen over a post: which disclosure
// hashtags appear (in the hashtag list or inline in the caption), and how
// promotional the caption reads per VADER. The output is advisory context
// for reviewers; it carries no weight in risk scoring.
func Scan(post models.Post) models.DisclosureSignals {
	found := findDisclosureTags(post)

	score, label := promoTone(post.Content.Caption)

	return models.DisclosureSignals{
		HasDisclosureTag: len(found) > 0,
		DisclosureTags:   found,
		PromoTone:        score,
		PromoToneLabel:   label,
	}
}

func findDisclosureTags(post models.Post) []string {
	seen := make(map[string]struct{})
	var found []string

	record := func(tag string) {
		tag = strings.ToLower(strings.TrimPrefix(tag, "#"))
		if _, disclosure := disclosureTags[tag]; !disclosure {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		found = append(found, tag)
	}

	for _, tag := range post.Content.Hashtags {
		record(tag)
	}
	for _, tag := range inlineHashtagPattern.FindAllString(post.Content.Caption, -1) {
		record(tag)
	}

	return found
}

var inlineHashtagPattern = regexp.MustCompile(`#\w+`)

func promoTone(caption string) (float64, string) {
	plainText := ConvertMarkdownToText(caption)

	sentiment := analyzer.PolarityScores(plainText)
	score := sentiment.Compound

	var label string
	if score >= 0.20 {
		label = "promotional"
	} else if score <= -0.20 {
		label = "negative"
	} else {
		label = "neutral"
	}

	return score, label
}

func RemoveLinks(input string) string {
	linkPattern := regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text

	urlPattern := regexp.MustCompile(`https?://\S+|www\.\S+`)
	input = urlPattern.ReplaceAllString(input, "")

	return input
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := strings.Join(strings.Fields(string(output)), " ")

	return RemoveLinks(plainText)
}
