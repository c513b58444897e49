package helper

import (
	"cinema_booking/model"
	"math"
	"strconv"
	"strings"
	"time"
)

// AppliedPromotion describes the rule that won the resolution.
type AppliedPromotion struct {
	Id              uint    `json:"id"`
	Name            string  `json:"name"`
	DiscountPercent float64 `json:"discount_percent"`
}

// PriceQuote is the result of promotion resolution for one ticket group.
type PriceQuote struct {
	BasePrice  float64           `json:"base_price"`
	FinalPrice float64           `json:"final_price"`
	Promotion  *AppliedPromotion `json:"promotion"`
}

// ParseClock turns "HH:MM" into minutes since midnight. Malformed values
// count as an unmatchable criterion rather than a crash.
func ParseClock(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// RuleMatches evaluates every present criterion of the rule against the
// purchase context; absent criteria match anything.
func RuleMatches(rule model.PromotionRule, seatCount int, ticketTypeId uint, screening model.Screening, now time.Time) bool {
	if !rule.IsActive(now) {
		return false
	}
	if rule.Weekday != nil && int(screening.StartTime.Weekday()) != *rule.Weekday {
		return false
	}
	startOfDay := screening.StartTime.Hour()*60 + screening.StartTime.Minute()
	if rule.TimeFrom != nil {
		from, ok := ParseClock(*rule.TimeFrom)
		if !ok || startOfDay < from {
			return false
		}
	}
	if rule.TimeTo != nil {
		to, ok := ParseClock(*rule.TimeTo)
		if !ok || startOfDay > to {
			return false
		}
	}
	if rule.MinTickets != nil && seatCount < *rule.MinTickets {
		return false
	}
	if rule.TicketTypeId != nil && *rule.TicketTypeId != ticketTypeId {
		return false
	}
	if rule.ScreeningId != nil && *rule.ScreeningId != screening.ID {
		return false
	}
	return true
}

// Round2 rounds to two decimal places, away from zero on ties.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculatePrice resolves the best promotion for a ticket group. Pure: it
// only reads its arguments, so it serves both the preview endpoint and the
// purchase commit. Among equally discounted rules the lowest id wins, which
// keeps repeated previews deterministic.
func CalculatePrice(seatCount int, ticketType model.TicketType, screening model.Screening, rules []model.PromotionRule, now time.Time) PriceQuote {
	basePrice := Round2(ticketType.Price * float64(seatCount))

	var best *model.PromotionRule
	for i := range rules {
		rule := &rules[i]
		if !RuleMatches(*rule, seatCount, ticketType.ID, screening, now) {
			continue
		}
		if best == nil ||
			rule.DiscountPercent > best.DiscountPercent ||
			(rule.DiscountPercent == best.DiscountPercent && rule.ID < best.ID) {
			best = rule
		}
	}

	if best == nil {
		return PriceQuote{BasePrice: basePrice, FinalPrice: basePrice, Promotion: nil}
	}

	finalPrice := Round2(basePrice * (1 - best.DiscountPercent/100))
	return PriceQuote{
		BasePrice:  basePrice,
		FinalPrice: finalPrice,
		Promotion: &AppliedPromotion{
			Id:              best.ID,
			Name:            best.Name,
			DiscountPercent: best.DiscountPercent,
		},
	}
}
