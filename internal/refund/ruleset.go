package refund

import "strings"

// RuleSet identifies the refund rule family of a cancellation policy.
// Policies created through the admin API carry an explicit rule set; legacy
// rows are classified from their display label via ClassifyGroupName.
type RuleSet string

const (
	RuleSetEasy          RuleSet = "easy"
	RuleSetFlexibleShort RuleSet = "flexible_short"
	RuleSetReasonable    RuleSet = "reasonable"
	RuleSetStrong        RuleSet = "strong"
	RuleSetStrictShort   RuleSet = "strict_short"
	RuleSetFlexibleLong  RuleSet = "flexible_long"
	RuleSetStrictLong    RuleSet = "strict_long"
	RuleSetCustom        RuleSet = "custom"
)

// ValidRuleSet reports whether s names a known rule family.
func ValidRuleSet(s string) bool {
	switch RuleSet(s) {
	case RuleSetEasy, RuleSetFlexibleShort, RuleSetReasonable, RuleSetStrong,
		RuleSetStrictShort, RuleSetFlexibleLong, RuleSetStrictLong, RuleSetCustom:
		return true
	}
	return false
}

// ClassifyGroupName maps a policy display label to its rule family by
// substring matching on the lower-cased, trimmed label. Match order matters:
// "flexible short" must be tested before "strong" and "strict short" so that
// mixed labels resolve to the more specific family first. Labels matching
// nothing fall into RuleSetCustom, which never grants a pre-check-in refund.
func ClassifyGroupName(name string) RuleSet {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.Contains(n, "easy"):
		return RuleSetEasy
	case strings.Contains(n, "flexible short"):
		return RuleSetFlexibleShort
	case strings.Contains(n, "reasonable"):
		return RuleSetReasonable
	case strings.Contains(n, "strong"):
		return RuleSetStrong
	case strings.Contains(n, "strict short"):
		return RuleSetStrictShort
	case strings.Contains(n, "flexible long"):
		return RuleSetFlexibleLong
	case strings.Contains(n, "strict long"):
		return RuleSetStrictLong
	default:
		return RuleSetCustom
	}
}

// beforeCheckInPercent returns the refund percentage (0, 50 or 100) a rule
// family grants for a cancellation ahead of check-in. daysUntil is the
// truncated whole-day difference, hoursUntil the fractional hour difference.
func beforeCheckInPercent(rs RuleSet, daysUntil int, hoursUntil float64) int64 {
	switch rs {
	case RuleSetEasy:
		if hoursUntil >= 24 {
			return 100
		}
	case RuleSetFlexibleShort:
		if hoursUntil >= 72 {
			return 100
		}
	case RuleSetReasonable:
		if daysUntil >= 7 {
			return 100
		}
		if hoursUntil >= 72 {
			return 50
		}
	case RuleSetStrong:
		if daysUntil >= 14 {
			return 100
		}
		if daysUntil >= 7 {
			return 50
		}
	case RuleSetStrictShort:
		if daysUntil >= 28 {
			return 100
		}
		if daysUntil >= 14 {
			return 50
		}
	case RuleSetFlexibleLong, RuleSetStrictLong:
		if daysUntil >= 28 {
			return 100
		}
	}
	return 0
}
