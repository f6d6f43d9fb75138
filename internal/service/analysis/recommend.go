// internal/service/analysis/recommend.go

package analysis

import "fmt"

// Recommendation carries the inventory and marketing guidance derived
// from a product's aggregated trend signals.
type Recommendation struct {
	Inventory string `json:"inventory"`
	Marketing string `json:"marketing"`
	Priority  string `json:"priority"`
	Details   string `json:"details"`
}

// Recommend maps aggregated mentions, sentiment, and trending signals to
// stocking guidance. Rules are checked in priority order and the first
// match wins.
func Recommend(mentions int, sentimentScore float64, isTrending bool, trendingScore float64) Recommendation {
	switch {
	case isTrending && sentimentScore > 0.3 && mentions > 100:
		return Recommendation{
			Inventory: "High Demand - Increase Stock",
			Marketing: "Promote heavily with trending hashtags",
			Priority:  "High",
			Details:   fmt.Sprintf("Trending with %.2f sentiment score and %d mentions", sentimentScore, mentions),
		}
	case isTrending && sentimentScore > 0.1:
		return Recommendation{
			Inventory: "Moderate Demand - Monitor Stock",
			Marketing: "Moderate promotion focusing on trending aspects",
			Priority:  "Medium-High",
			Details:   fmt.Sprintf("Trending with %.2f sentiment score", sentimentScore),
		}
	case sentimentScore < -0.2:
		return Recommendation{
			Inventory: "Caution - Monitor Feedback",
			Marketing: "Focus on addressing negative sentiment",
			Priority:  "Low",
			Details:   fmt.Sprintf("Negative sentiment detected (%.2f)", sentimentScore),
		}
	case mentions > 200 && sentimentScore > 0.1:
		return Recommendation{
			Inventory: "Steady Demand - Maintain Stock",
			Marketing: "Standard promotion with customer testimonials",
			Priority:  "Medium",
			Details:   fmt.Sprintf("High mentions (%d) with positive sentiment", mentions),
		}
	default:
		return Recommendation{
			Inventory: "Standard Stock Levels",
			Marketing: "Standard promotion strategy",
			Priority:  "Medium",
			Details:   "Average performance indicators",
		}
	}
}
