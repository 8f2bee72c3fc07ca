package notification

import "github.com/orderpilot/orderpilot/internal/model"

// PatternSet holds the per-platform extraction patterns, each list in
// priority order. Amount patterns must capture the numeric value in group
// 1; distance patterns capture value then unit; time patterns capture
// minutes. Patterns are illustrative of current notification formats and
// expected to churn as third-party apps change copy.
type PatternSet struct {
	Amount   []string
	Distance []string
	Time     []string
}

// DefaultPatterns returns the built-in pattern tables per platform.
func DefaultPatterns() map[model.Platform]PatternSet {
	// Most platforms share the generic money/distance/time shapes; the
	// dedicated rows only add format quirks observed on that platform.
	return map[model.Platform]PatternSet{
		model.PlatformSwiggy: {
			Amount: []string{
				`(?:new\s+order|order)[^0-9₹]*₹\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
				`₹\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
				`\brs\.?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
			},
			Distance: genericDistancePatterns(),
			Time:     genericTimePatterns(),
		},
		model.PlatformZomato: {
			Amount: []string{
				`earn(?:ing)?s?[^0-9₹]*₹\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
				`₹\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
			},
			Distance: genericDistancePatterns(),
			Time:     genericTimePatterns(),
		},
		model.PlatformUberEats: {
			Amount: []string{
				`\$\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)\s*(?:estimated|guaranteed|total)?`,
				`\$\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
			},
			Distance: genericDistancePatterns(),
			Time:     genericTimePatterns(),
		},
		model.PlatformDoorDash: {
			Amount: []string{
				`guaranteed[^0-9$]*\$\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
				`\$\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
			},
			Distance: genericDistancePatterns(),
			Time:     genericTimePatterns(),
		},
		model.PlatformGrubhub: {
			Amount:   genericDollarPatterns(),
			Distance: genericDistancePatterns(),
			Time:     genericTimePatterns(),
		},
		model.PlatformInstacart: {
			Amount: []string{
				`batch[^0-9$]*\$\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
				`\$\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
			},
			Distance: genericDistancePatterns(),
			Time:     genericTimePatterns(),
		},
		model.PlatformZepto: {
			Amount:   genericRupeePatterns(),
			Distance: genericDistancePatterns(),
			Time:     genericTimePatterns(),
		},
		model.PlatformBlinkit: {
			Amount:   genericRupeePatterns(),
			Distance: genericDistancePatterns(),
			Time:     genericTimePatterns(),
		},
	}
}

func genericRupeePatterns() []string {
	return []string{
		`₹\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
		`\brs\.?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
		`\binr\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
	}
}

func genericDollarPatterns() []string {
	return []string{
		`\$\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
		`\busd\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`,
	}
}

func genericDistancePatterns() []string {
	return []string{
		`([0-9]+(?:\.[0-9]+)?)\s*(km|kms|kilometers?)\b`,
		`([0-9]+(?:\.[0-9]+)?)\s*(mi|mile|miles)\b`,
	}
}

func genericTimePatterns() []string {
	return []string{
		`(?:estimated\s+time|eta|time)[^0-9]*([0-9]+)\s*(?:min|mins|minutes)\b`,
		`([0-9]+)\s*(?:min|mins|minutes)\b`,
	}
}
