// internal/service/generation/posts.go

package generation

import (
	"math/rand"
	"strings"
	"unicode"

	"retailtrends/internal/domain/trend"
)

var sentimentPhrases = map[string][]string{
	trend.SentimentPositive: {
		"Just bought a %PRODUCT% and it's a game-changer! %HASHTAG%",
		"Obsessed with my new %PRODUCT%! Perfect for %OCCASION%. %HASHTAG%",
		"Wow, the %PRODUCT% is so worth it! Amazing quality! %HASHTAG%",
		"Loving how %PRODUCT% fits into my %OCCASION% vibe! %HASHTAG%",
		"Can't get enough of my %PRODUCT%, such a steal! %HASHTAG%",
		"This %PRODUCT% is my new favorite for %OCCASION%! %HASHTAG%",
		"Shoutout to %PRODUCT% for making my day! %HASHTAG%",
		"%PRODUCT% is absolutely stunning, highly recommend! %HASHTAG%",
		"Super happy with my %PRODUCT%, it's a must-have! %HASHTAG%",
		"The %PRODUCT% is pure perfection! %HASHTAG%",
	},
	trend.SentimentNeutral: {
		"Trying out the %PRODUCT% today, seems decent so far. %HASHTAG%",
		"Got a %PRODUCT%, it's okay for %OCCASION%. %HASHTAG%",
		"The %PRODUCT% is alright, still testing it out. %HASHTAG%",
		"Picked up a %PRODUCT%, nothing extraordinary. %HASHTAG%",
		"Using %PRODUCT% for %OCCASION%, it's fine. %HASHTAG%",
		"My %PRODUCT% arrived, looks like it'll do the job. %HASHTAG%",
		"Not sure about %PRODUCT% yet, need more time. %HASHTAG%",
		"The %PRODUCT% is average, expected a bit more. %HASHTAG%",
		"Got the %PRODUCT%, it's functional but not wow. %HASHTAG%",
		"Exploring the %PRODUCT%, seems standard. %HASHTAG%",
	},
	trend.SentimentNegative: {
		"Not impressed with %PRODUCT%, feels overpriced. %HASHTAG%",
		"My %PRODUCT% didn't live up to the hype. %HASHTAG%",
		"Disappointed with the %PRODUCT%, broke too soon. %HASHTAG%",
		"Wish I hadn't bought the %PRODUCT%, total letdown. %HASHTAG%",
		"The %PRODUCT% quality is below par for %OCCASION%. %HASHTAG%",
		"%PRODUCT% isn't worth the price, sadly. %HASHTAG%",
		"Struggling with my %PRODUCT%, not user-friendly. %HASHTAG%",
		"The %PRODUCT% doesn't match the description. %HASHTAG%",
		"Really upset with %PRODUCT%, expected better. %HASHTAG%",
		"Returning my %PRODUCT%, such a waste! %HASHTAG%",
	},
}

var occasions = []string{
	"daily use", "festivals", "parties", "gifting", "home decor", "work", "celebrations",
}

var generalHashtags = []string{
	"#ShopIndia", "#IndianRetail", "#TrendyBuys", "#FestiveVibes",
	"#LocalLove", "#StyleIndia", "#NewIn", "#RetailTherapy",
	"#MadeForIndia", "#ShopSmart", "#InstaFinds", "#TrendyIndia",
}

var sentimentHashtags = map[string][]string{
	trend.SentimentPositive: {"#Obsessed", "#MustBuy", "#GameChanger", "#LoveIt", "#WowFactor"},
	trend.SentimentNeutral:  {"#FirstImpressions", "#TryingItOut", "#NewBuy", "#JustArrived"},
	trend.SentimentNegative: {"#NotImpressed", "#Overrated", "#BuyerBeware", "#Disappointed"},
}

var festivalHashtags = map[string][]string{
	"Diwali":           {"#DiwaliVibes", "#FestivalOfLights", "#DiwaliShopping"},
	"Eid":              {"#EidMubarak", "#EidCelebrations", "#EidGifts"},
	"Durga Puja":       {"#PujoVibes", "#DurgaPuja", "#BengaliFest"},
	"Holi":             {"#HoliHai", "#FestivalOfColors", "#HoliCelebration"},
	"Raksha Bandhan":   {"#RakhiLove", "#SiblingBond", "#RakshaBandhan"},
	"Christmas":        {"#MerryChristmas", "#WinterFest", "#ChristmasGifts"},
	"Ganesh Chaturthi": {"#GanpatiBappa", "#GaneshUtsav", "#MaharashtraFest"},
	"Onam":             {"#OnamCelebration", "#KeralaFest", "#OnamVibes"},
}

var sentimentEmojis = map[string][]string{
	trend.SentimentPositive: {"😍", "🔥", "✨", "👍", "💖"},
	trend.SentimentNeutral:  {"🤔", "😐", "👀", "🤷"},
	trend.SentimentNegative: {"😞", "😣", "🙅", "👎", "😑"},
}

var extraPhrases = []string{
	"Totally recommend checking this out!",
	"What do you guys think about this?",
	"Perfect for the season!",
	"Anyone else tried this yet?",
	"Really changed my vibe!",
}

// generatePost builds one synthetic social-media post. The festival name
// is empty outside festival seasons, in which case a random occasion is
// used instead.
func generatePost(rng *rand.Rand, product string, tags []string, sentimentLabel, festival string) string {
	templates := sentimentPhrases[sentimentLabel]
	template := templates[rng.Intn(len(templates))]

	occasion := occasions[rng.Intn(len(occasions))]
	if festival != "" {
		occasion = festival
	}
	hashtags := generateHashtags(rng, product, tags, sentimentLabel, festival)

	text := strings.NewReplacer(
		"%PRODUCT%", product,
		"%OCCASION%", occasion,
		"%HASHTAG%", hashtags,
	).Replace(template)

	emojis := sentimentEmojis[sentimentLabel]
	text += " " + strings.Join(sampleStrings(rng, emojis, 1+rng.Intn(3)), "")

	if rng.Float64() < 0.3 {
		text += " " + extraPhrases[rng.Intn(len(extraPhrases))]
	}

	return text
}

// generateHashtags mixes product, general, sentiment and festival hashtag
// pools, shuffles them, and keeps at most six.
func generateHashtags(rng *rand.Rand, product string, tags []string, sentimentLabel, festival string) string {
	var all []string

	for _, tag := range sampleStrings(rng, tags, 3) {
		all = append(all, "#"+capitalize(tag))
	}

	var nameTag strings.Builder
	nameTag.WriteByte('#')
	for _, part := range strings.Fields(product) {
		nameTag.WriteString(capitalize(part))
	}
	all = append(all, nameTag.String())

	all = append(all, sampleStrings(rng, generalHashtags, 2)...)
	all = append(all, sampleStrings(rng, sentimentHashtags[sentimentLabel], 1)...)
	if pool, ok := festivalHashtags[festival]; ok {
		all = append(all, sampleStrings(rng, pool, 2)...)
	}

	rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if len(all) > 6 {
		all = all[:6]
	}
	return strings.Join(all, " ")
}

// sampleStrings draws up to k elements without replacement.
func sampleStrings(rng *rand.Rand, pool []string, k int) []string {
	if k > len(pool) {
		k = len(pool)
	}
	if k <= 0 {
		return nil
	}
	out := make([]string, 0, k)
	for _, idx := range rng.Perm(len(pool))[:k] {
		out = append(out, pool[idx])
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
