// internal/service/generation/synthesizer.go

package generation

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"retailtrends/internal/catalog"
	"retailtrends/internal/domain/trend"
	"retailtrends/internal/service/sentiment"
)

const dateLayout = "2006-01-02"

var ageGroups = []string{"18-24", "25-34", "35-44", "45-54", "55+"}

// SynthesizerConfig contains configuration for the activity synthesizer
type SynthesizerConfig struct {
	Days            int
	SamplePostLimit int
}

// Synthesizer turns the popularity signal into day-by-day mention counts
// and synthetic posts with oracle-assigned sentiment.
type Synthesizer struct {
	catalog    *catalog.Catalog
	popularity *PopularityModel
	oracle     sentiment.Oracle
	rng        *rand.Rand
	config     SynthesizerConfig
	log        zerolog.Logger
}

// NewSynthesizer creates an activity synthesizer.
func NewSynthesizer(
	cat *catalog.Catalog,
	popularity *PopularityModel,
	oracle sentiment.Oracle,
	rng *rand.Rand,
	config SynthesizerConfig,
	log zerolog.Logger,
) *Synthesizer {
	if config.Days <= 0 {
		config.Days = 30
	}
	if config.SamplePostLimit <= 0 {
		config.SamplePostLimit = 5
	}
	return &Synthesizer{
		catalog:    cat,
		popularity: popularity,
		oracle:     oracle,
		rng:        rng,
		config:     config,
		log:        log,
	}
}

// BuildRecord synthesizes the full activity window for one product in one
// region. The trending score and recommendations are filled in later by
// the selector.
func (s *Synthesizer) BuildRecord(ctx context.Context, id int, category string, product catalog.Product, region string, start time.Time) trend.Record {
	spikes := s.pickSpikeDays()

	regionFactor := 0.8
	switch s.catalog.TierOf(region) {
	case trend.TierMetro:
		regionFactor = 1.2
	case trend.TierOne:
		regionFactor = 1.0
	}

	var (
		posts      []trend.Post
		texts      []string
		dailyStats = make([]trend.DailyStat, 0, s.config.Days)
	)

	for day := 0; day < s.config.Days; day++ {
		date := start.AddDate(0, 0, day)
		festival, inSeason := s.catalog.FestivalOn(date)

		popularity := s.popularity.Popularity(date, category, product.Name, product.Tags, region)
		popularity *= 1 + 0.4*math.Sin(2*math.Pi*float64(mondayWeekday(date))/7)
		if spikes[day] {
			popularity *= uniform(s.rng, 1.8, 3.5)
		}

		lambda := popularity * regionFactor * uniform(s.rng, 1.5, 3.0)
		if lambda < 1 {
			lambda = 1
		}
		mentions := poisson(s.rng, lambda)
		dailyStats = append(dailyStats, trend.DailyStat{
			Date:     date.Format(dateLayout),
			Mentions: mentions,
		})

		bias := s.sentimentBias(product.Tags, festival, inSeason)
		festivalName := ""
		if inSeason {
			festivalName = festival.Name
		}

		for i := 0; i < mentions; i++ {
			sampled := s.sampleSentiment(bias)
			text := generatePost(s.rng, product.Name, product.Tags, sampled, festivalName)
			texts = append(texts, text)
			posts = append(posts, trend.Post{
				Text: text,
				Date: date.Format(dateLayout),
			})
		}
	}

	// The oracle's label is authoritative for what gets counted, even when
	// it disagrees with the sampled label used to pick the template.
	var counts trend.SentimentCounts
	results := s.oracle.ClassifyBatch(ctx, texts)
	for i, res := range results {
		switch res.Label {
		case trend.SentimentPositive:
			counts.Positive++
		case trend.SentimentNegative:
			counts.Negative++
		default:
			counts.Neutral++
		}
		posts[i].Sentiment = res.Label
		posts[i].SentimentScore = res.Score
	}

	samples := posts
	if len(samples) > s.config.SamplePostLimit {
		samples = samples[:s.config.SamplePostLimit]
	}

	return trend.Record{
		ID:                      id,
		Name:                    product.Name,
		Category:                category,
		Region:                  region,
		RegionType:              s.catalog.TierOf(region),
		TotalMentions:           counts.Total(),
		SentimentCounts:         counts,
		SentimentPercentages:    counts.Percentages(),
		Recommendation:          "Pending",
		RecommendationDetails:   "Pending",
		MarketingRecommendation: "Pending",
		Demographics:            s.generateDemographics(region),
		SamplePosts:             samples,
		DailyStats:              dailyStats,
		Tags:                    append([]string(nil), product.Tags...),
	}
}

// pickSpikeDays selects 1-3 distinct days of the window as demand spikes.
func (s *Synthesizer) pickSpikeDays() map[int]bool {
	count := 1 + s.rng.Intn(3)
	spikes := make(map[int]bool, count)
	for _, day := range s.rng.Perm(s.config.Days)[:count] {
		spikes[day] = true
	}
	return spikes
}

// sentimentBias starts from the base distribution and shifts it for
// luxury tags, affordable tags, and festival-tag overlap.
func (s *Synthesizer) sentimentBias(tags []string, festival catalog.Festival, inSeason bool) map[string]float64 {
	bias := map[string]float64{
		trend.SentimentPositive: 0.65,
		trend.SentimentNeutral:  0.25,
		trend.SentimentNegative: 0.10,
	}

	if hasAnyTag(tags, "luxury", "premium", "designer") {
		bias[trend.SentimentPositive] += 0.1
		bias[trend.SentimentNeutral] -= 0.05
		bias[trend.SentimentNegative] -= 0.05
	} else if hasAnyTag(tags, "affordable", "value-for-money") {
		bias[trend.SentimentNeutral] += 0.1
		bias[trend.SentimentPositive] -= 0.05
		bias[trend.SentimentNegative] -= 0.05
	}

	if inSeason && hasAnyTag(tags, festival.Tags...) {
		bias[trend.SentimentPositive] += 0.1
		bias[trend.SentimentNeutral] -= 0.05
		bias[trend.SentimentNegative] -= 0.05
	}

	return bias
}

func (s *Synthesizer) sampleSentiment(bias map[string]float64) string {
	labels := []string{trend.SentimentPositive, trend.SentimentNeutral, trend.SentimentNegative}
	total := 0.0
	for _, label := range labels {
		total += bias[label]
	}

	r := s.rng.Float64() * total
	for _, label := range labels {
		r -= bias[label]
		if r < 0 {
			return label
		}
	}
	return trend.SentimentNegative
}

// generateDemographics builds a tier-dependent age distribution with
// jitter, normalized to sum to 1.0, plus a gender split summing to 1.0.
func (s *Synthesizer) generateDemographics(region string) trend.Demographics {
	var base map[string]float64
	switch s.catalog.TierOf(region) {
	case trend.TierMetro:
		base = map[string]float64{"18-24": 0.35, "25-34": 0.30, "35-44": 0.20, "45-54": 0.10, "55+": 0.05}
	case trend.TierOne:
		base = map[string]float64{"18-24": 0.25, "25-34": 0.35, "35-44": 0.25, "45-54": 0.10, "55+": 0.05}
	default:
		base = map[string]float64{"18-24": 0.20, "25-34": 0.30, "35-44": 0.30, "45-54": 0.15, "55+": 0.05}
	}

	dist := make(map[string]float64, len(ageGroups))
	total := 0.0
	for _, group := range ageGroups {
		v := base[group] + uniform(s.rng, -0.1, 0.1)
		if v < 0.05 {
			v = 0.05
		}
		if v > 0.5 {
			v = 0.5
		}
		dist[group] = v
		total += v
	}
	for _, group := range ageGroups {
		dist[group] /= total
	}

	male := uniform(s.rng, 0.45, 0.55)
	return trend.Demographics{
		AgeGroups: dist,
		Gender:    map[string]float64{"male": male, "female": 1 - male},
	}
}

// mondayWeekday maps time.Weekday to a Monday-based index so the weekly
// cycle peaks midweek the same way for every run.
func mondayWeekday(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}

// poisson draws a Poisson-distributed count via Knuth's multiplication
// method; the rates here stay small enough for it.
func poisson(rng *rand.Rand, lambda float64) int {
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}
