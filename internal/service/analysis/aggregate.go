// internal/service/analysis/aggregate.go

package analysis

import (
	"sort"

	"retailtrends/internal/domain/trend"
)

// SentimentSummary is the overall sentiment roll-up across a record set.
type SentimentSummary struct {
	OverallSentimentScore float64 `json:"overall_sentiment_score"`
	PositivePercentage    float64 `json:"positive_percentage"`
	NeutralPercentage     float64 `json:"neutral_percentage"`
	NegativePercentage    float64 `json:"negative_percentage"`
	TotalMentions         int     `json:"total_mentions"`
}

// CalculateSentimentScores sums sentiment counts across all records and
// derives the overall score in [-1, 1]. An empty input yields nil, not a
// zero-filled summary.
func CalculateSentimentScores(records []trend.Record) *SentimentSummary {
	if len(records) == 0 {
		return nil
	}

	var totals trend.SentimentCounts
	for _, rec := range records {
		totals.Positive += rec.SentimentCounts.Positive
		totals.Neutral += rec.SentimentCounts.Neutral
		totals.Negative += rec.SentimentCounts.Negative
	}

	total := totals.Total()
	if total == 0 {
		return &SentimentSummary{}
	}

	return &SentimentSummary{
		OverallSentimentScore: float64(totals.Positive-totals.Negative) / float64(total),
		PositivePercentage:    float64(totals.Positive) / float64(total) * 100,
		NeutralPercentage:     float64(totals.Neutral) / float64(total) * 100,
		NegativePercentage:    float64(totals.Negative) / float64(total) * 100,
		TotalMentions:         total,
	}
}

// ProductSentiment breaks down a product group's aggregated sentiment.
type ProductSentiment struct {
	OverallScore       float64 `json:"overall_score"`
	PositiveCount      int     `json:"positive_count"`
	NeutralCount       int     `json:"neutral_count"`
	NegativeCount      int     `json:"negative_count"`
	PositivePercentage float64 `json:"positive_percentage"`
	NeutralPercentage  float64 `json:"neutral_percentage"`
	NegativePercentage float64 `json:"negative_percentage"`
}

// ProductTrend is a cross-region summary for one product name.
type ProductTrend struct {
	ProductName    string           `json:"product_name"`
	Category       string           `json:"category"`
	TotalMentions  int              `json:"total_mentions"`
	Regions        []string         `json:"regions"`
	RegionCount    int              `json:"region_count"`
	TrendingScore  float64          `json:"trending_score"`
	IsTrending     bool             `json:"is_trending"`
	Sentiment      ProductSentiment `json:"sentiment_analysis"`
	Recommendation Recommendation   `json:"recommendation"`
	SampleData     []trend.Record   `json:"sample_data"`
}

// AnalyzeTrendingProducts groups records by product name, optionally
// filtered by exact region and category, and returns per-product
// summaries sorted by average trending score descending. Groups keep
// insertion order so the first-encountered category wins deterministically.
func AnalyzeTrendingProducts(records []trend.Record, region, category string) []ProductTrend {
	if len(records) == 0 {
		return []ProductTrend{}
	}

	filter := trend.Filter{Region: region, Category: category}
	groups := make(map[string][]trend.Record)
	var order []string
	for _, rec := range records {
		if !filter.Matches(rec) {
			continue
		}
		if _, ok := groups[rec.Name]; !ok {
			order = append(order, rec.Name)
		}
		groups[rec.Name] = append(groups[rec.Name], rec)
	}

	results := make([]ProductTrend, 0, len(order))
	for _, name := range order {
		results = append(results, summarizeProduct(name, groups[name]))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TrendingScore > results[j].TrendingScore
	})
	return results
}

func summarizeProduct(name string, items []trend.Record) ProductTrend {
	var (
		totals        trend.SentimentCounts
		totalMentions int
		scoreSum      float64
		isTrending    bool
		regions       []string
		seenRegions   = make(map[string]bool)
	)

	for _, rec := range items {
		totalMentions += rec.TotalMentions
		totals.Positive += rec.SentimentCounts.Positive
		totals.Neutral += rec.SentimentCounts.Neutral
		totals.Negative += rec.SentimentCounts.Negative
		scoreSum += rec.TrendingScore
		if rec.IsTrending {
			isTrending = true
		}
		if !seenRegions[rec.Region] {
			seenRegions[rec.Region] = true
			regions = append(regions, rec.Region)
		}
	}

	avgScore := scoreSum / float64(len(items))

	samples := items
	if len(samples) > 3 {
		samples = samples[:3]
	}

	sentimentTotal := totals.Total()
	var sentimentScore float64
	if sentimentTotal > 0 {
		sentimentScore = float64(totals.Positive-totals.Negative) / float64(sentimentTotal)
	}
	pct := totals.Percentages()

	return ProductTrend{
		ProductName:   name,
		Category:      items[0].Category,
		TotalMentions: totalMentions,
		Regions:       regions,
		RegionCount:   len(regions),
		TrendingScore: avgScore,
		IsTrending:    isTrending,
		Sentiment: ProductSentiment{
			OverallScore:       sentimentScore,
			PositiveCount:      totals.Positive,
			NeutralCount:       totals.Neutral,
			NegativeCount:      totals.Negative,
			PositivePercentage: pct.Positive,
			NeutralPercentage:  pct.Neutral,
			NegativePercentage: pct.Negative,
		},
		Recommendation: Recommend(totalMentions, sentimentScore, isTrending, avgScore),
		SampleData:     samples,
	}
}

// RegionProduct is one product entry in a region's top-products list.
type RegionProduct struct {
	Name          string  `json:"name"`
	Mentions      int     `json:"mentions"`
	TrendingScore float64 `json:"trending_score"`
	IsTrending    bool    `json:"is_trending"`
}

// RegionSummary aggregates one region's activity.
type RegionSummary struct {
	TotalMentions        int                        `json:"total_mentions"`
	TotalProducts        int                        `json:"total_products"`
	TrendingProducts     int                        `json:"trending_products"`
	SentimentTotals      trend.SentimentCounts      `json:"sentiment_totals"`
	SentimentPercentages trend.SentimentPercentages `json:"sentiment_percentages"`
	Categories           map[string]int             `json:"categories"`
	TopProducts          []RegionProduct            `json:"top_products"`
	TrendingPercentage   float64                    `json:"trending_percentage"`
}

// AnalyzeRegionalTrends groups records by region, summing mentions and
// sentiment, tallying the category distribution, and keeping the ten
// highest-scoring products per region.
func AnalyzeRegionalTrends(records []trend.Record) map[string]*RegionSummary {
	summaries := make(map[string]*RegionSummary)
	for _, rec := range records {
		summary, ok := summaries[rec.Region]
		if !ok {
			summary = &RegionSummary{Categories: make(map[string]int)}
			summaries[rec.Region] = summary
		}

		summary.TotalMentions += rec.TotalMentions
		summary.TotalProducts++
		if rec.IsTrending {
			summary.TrendingProducts++
		}
		summary.SentimentTotals.Positive += rec.SentimentCounts.Positive
		summary.SentimentTotals.Neutral += rec.SentimentCounts.Neutral
		summary.SentimentTotals.Negative += rec.SentimentCounts.Negative
		summary.Categories[rec.Category]++
		summary.TopProducts = append(summary.TopProducts, RegionProduct{
			Name:          rec.Name,
			Mentions:      rec.TotalMentions,
			TrendingScore: rec.TrendingScore,
			IsTrending:    rec.IsTrending,
		})
	}

	for _, summary := range summaries {
		summary.SentimentPercentages = summary.SentimentTotals.Percentages()

		sort.SliceStable(summary.TopProducts, func(i, j int) bool {
			return summary.TopProducts[i].TrendingScore > summary.TopProducts[j].TrendingScore
		})
		if len(summary.TopProducts) > 10 {
			summary.TopProducts = summary.TopProducts[:10]
		}

		if summary.TotalProducts > 0 {
			summary.TrendingPercentage = float64(summary.TrendingProducts) / float64(summary.TotalProducts) * 100
		}
	}

	return summaries
}
