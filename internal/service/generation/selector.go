// internal/service/generation/selector.go

package generation

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"retailtrends/internal/domain/trend"
)

// Selector computes trending scores and applies the two-pass trending
// selection: a per-(region, category) pass, then a global promoting pass.
type Selector struct {
	rng         *rand.Rand
	regionalCap float64
	globalCap   float64
}

// NewSelector creates a selector with the regional and global trending
// caps (fractions of the group and total record counts).
func NewSelector(rng *rand.Rand, regionalCap, globalCap float64) *Selector {
	if regionalCap <= 0 {
		regionalCap = 0.10
	}
	if globalCap <= 0 {
		globalCap = 0.05
	}
	return &Selector{rng: rng, regionalCap: regionalCap, globalCap: globalCap}
}

// Score computes the trending score for one record's sentiment counts:
// a sentiment-weighted rate scaled by volume, jittered, floored at zero.
func (s *Selector) Score(counts trend.SentimentCounts) float64 {
	total := counts.Total()
	weighted := float64(counts.Positive)*1.8 + float64(counts.Neutral)*0.4 - float64(counts.Negative)*1.2

	divisor := total
	if divisor < 1 {
		divisor = 1
	}
	score := weighted / float64(divisor) * float64(total) / 8
	score *= uniform(s.rng, 0.8, 1.2)
	if score < 0 {
		return 0
	}
	return score
}

type groupKey struct {
	region   string
	category string
}

// Apply runs the regional pass, per-record classification, and the global
// pass over the full record set. IsTrending is only ever promoted.
func (s *Selector) Apply(records []trend.Record) {
	if len(records) == 0 {
		return
	}

	groups := make(map[groupKey][]int)
	var order []groupKey
	for i, rec := range records {
		key := groupKey{region: rec.Region, category: rec.Category}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	for _, key := range order {
		indices := groups[key]
		quota := cappedCount(len(indices), s.regionalCap)

		ranked := append([]int(nil), indices...)
		sort.SliceStable(ranked, func(a, b int) bool {
			return records[ranked[a]].TrendingScore > records[ranked[b]].TrendingScore
		})
		for _, idx := range ranked[:quota] {
			records[idx].IsTrending = true
		}

		for _, idx := range indices {
			classifyRecord(&records[idx])
		}
	}

	globalQuota := cappedCount(len(records), s.globalCap)
	ranked := make([]int, len(records))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return records[ranked[a]].TrendingScore > records[ranked[b]].TrendingScore
	})
	for _, idx := range ranked[:globalQuota] {
		rec := &records[idx]
		rec.IsTrending = true
		if rec.SentimentPercentages.Positive > 65 {
			rec.Recommendation = "High Demand - Increase Stock"
			rec.RecommendationDetails = fmt.Sprintf(
				"Global trending with %.1f%% positive sentiment. Increase inventory by 30-50%%.",
				rec.SentimentPercentages.Positive,
			)
		}
	}
}

func cappedCount(n int, fraction float64) int {
	count := int(math.Ceil(fraction * float64(n)))
	if count < 1 {
		count = 1
	}
	return count
}

// classifyRecord assigns the generation-time recommendation from the
// record's own sentiment percentages. This table is intentionally separate
// from the reporting-stage rule engine.
func classifyRecord(rec *trend.Record) {
	pct := rec.SentimentPercentages
	switch {
	case rec.IsTrending && pct.Positive > 65:
		rec.Recommendation = "High Demand - Increase Stock"
		rec.RecommendationDetails = fmt.Sprintf(
			"Trending with %.1f%% positive sentiment. Increase inventory by 30-50%%.", pct.Positive)
		rec.MarketingRecommendation = fmt.Sprintf(
			"Promote heavily with %s targeting %s age group",
			strings.Join(topHashtags(rec.SamplePosts, 3), ", "),
			topAgeGroup(rec.Demographics),
		)
	case rec.IsTrending && pct.Positive > 45:
		rec.Recommendation = "Moderate Demand - Maintain Stock"
		rec.RecommendationDetails = fmt.Sprintf(
			"Steady popularity with %.1f%% positive sentiment. Maintain current inventory.", pct.Positive)
		rec.MarketingRecommendation = "Moderate promotion focusing on product features"
	case pct.Negative > 35:
		rec.Recommendation = "Caution - Monitor Feedback"
		rec.RecommendationDetails = fmt.Sprintf(
			"High negative sentiment (%.1f%%). Address customer concerns.", pct.Negative)
		rec.MarketingRecommendation = "Focus on improving product perception"
	default:
		rec.Recommendation = "Standard Stock Levels"
		rec.RecommendationDetails = "Average demand. Maintain standard inventory."
		rec.MarketingRecommendation = "Standard promotion with customer testimonials"
	}
}

// topHashtags extracts up to max distinct hashtags from the sample posts
// in first-seen order, defaulting to #TrendingNow when there are none.
func topHashtags(posts []trend.Post, limit int) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, post := range posts {
		for _, token := range strings.Fields(post.Text) {
			if strings.HasPrefix(token, "#") && !seen[token] {
				seen[token] = true
				tags = append(tags, token)
			}
		}
	}
	if len(tags) == 0 {
		return []string{"#TrendingNow"}
	}
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}

// topAgeGroup returns the largest age-group share, iterating sorted keys
// so ties resolve deterministically.
func topAgeGroup(d trend.Demographics) string {
	keys := make([]string, 0, len(d.AgeGroups))
	for k := range d.AgeGroups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := ""
	bestShare := math.Inf(-1)
	for _, k := range keys {
		if d.AgeGroups[k] > bestShare {
			best = k
			bestShare = d.AgeGroups[k]
		}
	}
	return best
}
