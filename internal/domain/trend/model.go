// internal/domain/trend/model.go

package trend

// Sentiment labels used across generation and reporting.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Region tiers from reference data.
const (
	TierMetro = "Metro"
	TierOne   = "Tier-1"
	TierTwo   = "Tier-2"
	TierOther = "Other"
)

// SentimentCounts holds raw mention counts per sentiment label.
type SentimentCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// Total returns the sum of all sentiment counts.
func (c SentimentCounts) Total() int {
	return c.Positive + c.Neutral + c.Negative
}

// SentimentPercentages expresses sentiment counts as 0-100 floats.
type SentimentPercentages struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

// Percentages converts counts into 0-100 percentages, all zero when the
// total is zero.
func (c SentimentCounts) Percentages() SentimentPercentages {
	total := c.Total()
	if total == 0 {
		return SentimentPercentages{}
	}
	return SentimentPercentages{
		Positive: float64(c.Positive) / float64(total) * 100,
		Neutral:  float64(c.Neutral) / float64(total) * 100,
		Negative: float64(c.Negative) / float64(total) * 100,
	}
}

// Post is a single synthetic social-media mention.
type Post struct {
	Text           string  `json:"text"`
	Date           string  `json:"date"`
	Sentiment      string  `json:"sentiment"`
	SentimentScore float64 `json:"sentiment_score"`
}

// DailyStat is the mention count for one day of the window.
type DailyStat struct {
	Date     string `json:"date"`
	Mentions int    `json:"mentions"`
}

// Demographics describes the audience split for a record. Age groups sum
// to 1.0, as does the gender split.
type Demographics struct {
	AgeGroups map[string]float64 `json:"age_groups"`
	Gender    map[string]float64 `json:"gender"`
}

// Record is the unit of pipeline output and of later aggregation: one
// product observed in one region over the generation window.
type Record struct {
	ID                      int                  `json:"id"`
	Name                    string               `json:"name"`
	Category                string               `json:"category"`
	Region                  string               `json:"region"`
	RegionType              string               `json:"region_type"`
	TotalMentions           int                  `json:"total_mentions"`
	SentimentCounts         SentimentCounts      `json:"sentiment_counts"`
	SentimentPercentages    SentimentPercentages `json:"sentiment_percentages"`
	TrendingScore           float64              `json:"trending_score"`
	IsTrending              bool                 `json:"is_trending"`
	Recommendation          string               `json:"recommendation"`
	RecommendationDetails   string               `json:"recommendation_details"`
	MarketingRecommendation string               `json:"marketing_recommendation"`
	Demographics            Demographics         `json:"demographics"`
	SamplePosts             []Post               `json:"sample_posts"`
	DailyStats              []DailyStat          `json:"daily_stats"`
	Tags                    []string             `json:"tags"`
}

// Filter defines criteria for narrowing record sets during reporting.
type Filter struct {
	Region   string
	Category string
}

// Matches reports whether a record passes the filter. Empty fields match
// everything.
func (f Filter) Matches(r Record) bool {
	if f.Region != "" && r.Region != f.Region {
		return false
	}
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	return true
}
