package refund

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Defaults applied when the booking and its listing snapshot omit the fields.
const (
	DefaultTimezone    = "America/New_York"
	DefaultCheckInTime = "15:00:00"
)

const (
	noPolicyName        = "No Policy"
	noPolicyDescription = "No cancellation policy found for this booking."
	noRuleDescription   = "No refund policy specified."
)

// Category buckets a computed refund for display.
type Category string

const (
	CategoryFull    Category = "full"    // 100%
	CategoryPartial Category = "partial" // 0% < x < 100%
	CategoryNone    Category = "none"    // 0%
)

var (
	half    = decimal.NewFromFloat(0.5)
	hundred = decimal.NewFromInt(100)
)

// StaySnapshot carries the listing fields the calculator reads.
type StaySnapshot struct {
	Timezone     string `json:"timezone"`
	CheckInAfter string `json:"check_in_after"`
}

// Pricing mirrors the nested pricing block some booking payloads carry.
type Pricing struct {
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Booking is the subset of a booking record the calculator consumes.
// GrandTotal unmarshals from either a JSON number or a numeric string,
// which matches what the upstream booking API emits. A missing total
// stays at decimal zero.
type Booking struct {
	ArrivalDate     string          `json:"arrival_date"` // property-local calendar date, ISO format
	GrandTotal      decimal.Decimal `json:"grand_total"`
	Pricing         *Pricing        `json:"pricing,omitempty"`
	Stay            *StaySnapshot   `json:"stay,omitempty"`
	ListingSnapshot *StaySnapshot   `json:"listing_snapshot,omitempty"`
}

// Policy is the subset of a cancellation policy the calculator consumes.
// An empty RuleSet falls back to classifying GroupName.
type Policy struct {
	GroupName     string
	RuleSet       RuleSet
	BeforeCheckIn string
	AfterCheckIn  string
}

// Calculation is the refund outcome. It is never persisted as-is; callers
// recompute it on demand from the current instant.
type Calculation struct {
	RefundPercentage  decimal.Decimal `json:"refund_percentage"`
	RefundAmount      decimal.Decimal `json:"refund_amount"`
	ForfeitAmount     decimal.Decimal `json:"forfeit_amount"`
	HostPayout        decimal.Decimal `json:"host_payout"`
	IsBeforeCheckIn   bool            `json:"is_before_check_in"`
	DaysUntilCheckIn  int             `json:"days_until_check_in"`
	HoursUntilCheckIn float64         `json:"hours_until_check_in"`
	PolicyName        string          `json:"policy_name"`
	PolicyDescription string          `json:"policy_description"`
	RefundCategory    Category        `json:"refund_category"`
}

// Calculator computes cancellation refunds. The clock is injectable so tests
// can pin "now" to a fixed instant.
type Calculator struct {
	now func() time.Time
}

// NewCalculator returns a Calculator using the real wall clock.
func NewCalculator() *Calculator {
	return &Calculator{now: time.Now}
}

// NewCalculatorWithClock returns a Calculator reading "now" from the given
// function.
func NewCalculatorWithClock(now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{now: now}
}

// Calculate evaluates the refund at the calculator's current instant.
func (c *Calculator) Calculate(booking Booking, policy *Policy, nights int) Calculation {
	return c.CalculateAt(booking, policy, nights, c.now())
}

// CalculateAt evaluates the refund for a cancellation at the given instant.
//
// All before/after comparisons happen against the check-in instant built from
// the booking's arrival date and check-in time-of-day interpreted in the
// property's timezone, so two callers in different zones evaluating the same
// real-world instant always agree on the outcome. The function never panics
// and never errors: missing or malformed inputs degrade to documented
// defaults, and degenerate bookings (zero nights, zero total, unparsable
// arrival date) resolve to zero refund with full forfeiture.
func (c *Calculator) CalculateAt(booking Booking, policy *Policy, nights int, now time.Time) Calculation {
	loc := resolveLocation(booking)
	grandTotal := resolveGrandTotal(booking)

	calc := Calculation{
		RefundPercentage: decimal.Zero,
		RefundAmount:     decimal.Zero,
		ForfeitAmount:    grandTotal,
		HostPayout:       grandTotal,
		RefundCategory:   CategoryNone,
	}

	checkIn, ok := checkInInstant(booking, loc)
	if !ok {
		// No usable arrival date means no instant to compare against; the
		// cancellation is treated as fully forfeited.
		if policy == nil {
			calc.PolicyName = noPolicyName
			calc.PolicyDescription = noPolicyDescription
		} else {
			calc.PolicyName = policy.GroupName
			calc.PolicyDescription = fallbackText(policy.AfterCheckIn)
		}
		return calc
	}

	nowLocal := now.In(loc)
	until := checkIn.Sub(nowLocal)
	calc.HoursUntilCheckIn = until.Hours()
	calc.DaysUntilCheckIn = int(until.Hours() / 24) // truncated whole days
	calc.IsBeforeCheckIn = nowLocal.Before(checkIn) // the exact check-in instant counts as "after"

	if policy == nil {
		calc.PolicyName = noPolicyName
		calc.PolicyDescription = noPolicyDescription
		return calc
	}
	calc.PolicyName = policy.GroupName

	var pct decimal.Decimal
	if calc.IsBeforeCheckIn {
		calc.PolicyDescription = fallbackText(policy.BeforeCheckIn)
		rs := policy.RuleSet
		if rs == "" {
			rs = ClassifyGroupName(policy.GroupName)
		}
		pct = decimal.NewFromInt(beforeCheckInPercent(rs, calc.DaysUntilCheckIn, calc.HoursUntilCheckIn))
	} else {
		calc.PolicyDescription = fallbackText(policy.AfterCheckIn)
		pct = afterCheckInPercent(grandTotal, nights, nowLocal, checkIn)
	}

	calc.RefundPercentage = pct
	calc.RefundAmount = grandTotal.Mul(pct).Div(hundred)
	calc.ForfeitAmount = grandTotal.Sub(calc.RefundAmount)
	calc.HostPayout = calc.ForfeitAmount

	switch {
	case pct.Equal(hundred):
		calc.RefundCategory = CategoryFull
	case pct.GreaterThan(decimal.Zero):
		calc.RefundCategory = CategoryPartial
	default:
		calc.RefundCategory = CategoryNone
	}

	return calc
}

// afterCheckInPercent prorates a post-check-in cancellation. The formula is
// the same for every policy family: the host keeps every night stayed plus
// one additional night, plus half of all remaining unstayed nights.
// Degenerate bookings (nights or total not positive) cannot be prorated and
// forfeit everything.
func afterCheckInPercent(grandTotal decimal.Decimal, nights int, nowLocal, checkIn time.Time) decimal.Decimal {
	if nights <= 0 || !grandTotal.IsPositive() {
		return decimal.Zero
	}

	nightsStayed := int(nowLocal.Sub(checkIn).Hours() / 24)
	if nightsStayed < 0 {
		nightsStayed = 0
	}
	mandatoryNights := nightsStayed + 1 // the night of cancellation is always owed
	nightsRemaining := nights - mandatoryNights
	if nightsRemaining < 0 {
		nightsRemaining = 0
	}

	nightsPaidToHost := decimal.NewFromInt(int64(mandatoryNights)).
		Add(decimal.NewFromInt(int64(nightsRemaining)).Mul(half))
	nightlyRate := grandTotal.Div(decimal.NewFromInt(int64(nights)))
	hostPayment := decimal.Min(nightsPaidToHost.Mul(nightlyRate), grandTotal)

	pct := grandTotal.Sub(hostPayment).Div(grandTotal).Mul(hundred)
	if pct.IsNegative() {
		return decimal.Zero
	}
	return pct
}

// resolveLocation picks the property timezone: stay snapshot, then listing
// snapshot, then the fixed default. Unknown zone names also fall back to the
// default.
func resolveLocation(b Booking) *time.Location {
	tz := ""
	if b.Stay != nil && b.Stay.Timezone != "" {
		tz = b.Stay.Timezone
	} else if b.ListingSnapshot != nil && b.ListingSnapshot.Timezone != "" {
		tz = b.ListingSnapshot.Timezone
	}
	if tz == "" {
		tz = DefaultTimezone
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc, err = time.LoadLocation(DefaultTimezone)
		if err != nil {
			return time.UTC
		}
	}
	return loc
}

// checkInInstant combines the arrival date with the check-in time-of-day in
// the property's zone. Returns false when the arrival date is unusable.
func checkInInstant(b Booking, loc *time.Location) (time.Time, bool) {
	raw := b.ArrivalDate
	if len(raw) < 10 {
		return time.Time{}, false
	}
	day, err := time.Parse("2006-01-02", raw[:10])
	if err != nil {
		return time.Time{}, false
	}

	checkInAfter := ""
	if b.Stay != nil && b.Stay.CheckInAfter != "" {
		checkInAfter = b.Stay.CheckInAfter
	} else if b.ListingSnapshot != nil && b.ListingSnapshot.CheckInAfter != "" {
		checkInAfter = b.ListingSnapshot.CheckInAfter
	}
	if checkInAfter == "" {
		checkInAfter = DefaultCheckInTime
	}
	tod, err := time.Parse("15:04:05", checkInAfter)
	if err != nil {
		tod, _ = time.Parse("15:04:05", DefaultCheckInTime)
	}

	return time.Date(day.Year(), day.Month(), day.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, loc), true
}

// resolveGrandTotal reads the booking total, falling back to the nested
// pricing block when the top-level field is absent.
func resolveGrandTotal(b Booking) decimal.Decimal {
	if !b.GrandTotal.IsZero() {
		return b.GrandTotal
	}
	if b.Pricing != nil {
		return b.Pricing.GrandTotal
	}
	return decimal.Zero
}

func fallbackText(s string) string {
	if strings.TrimSpace(s) == "" {
		return noRuleDescription
	}
	return s
}
