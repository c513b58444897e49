package helper

import (
	"testing"
	"time"

	"cinema_booking/model"
	"cinema_booking/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeRule(id uint, discount float64) model.PromotionRule {
	return model.PromotionRule{
		DTO:             model.DTO{ID: id},
		Name:            "rule",
		DiscountPercent: discount,
		ValidFrom:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:         time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
	}
}

func TestParseClock(t *testing.T) {
	minutes, ok := ParseClock("18:30")
	require.True(t, ok)
	assert.Equal(t, 18*60+30, minutes)

	for _, bad := range []string{"", "18", "18:30:00", "24:00", "12:60", "ab:cd"} {
		_, ok := ParseClock(bad)
		assert.False(t, ok, "%q should not parse", bad)
	}
}

func TestRuleMatches_ValidityWindow(t *testing.T) {
	rule := activeRule(1, 10)
	screening := model.Screening{DTO: model.DTO{ID: 5}, StartTime: time.Date(2026, 6, 10, 18, 0, 0, 0, time.UTC)}

	assert.True(t, RuleMatches(rule, 1, 1, screening, time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)))
	assert.False(t, RuleMatches(rule, 1, 1, screening, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, RuleMatches(rule, 1, 1, screening, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestRuleMatches_Criteria(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	// Wednesday evening screening
	screening := model.Screening{DTO: model.DTO{ID: 5}, StartTime: time.Date(2026, 6, 10, 19, 0, 0, 0, time.UTC)}

	rule := activeRule(1, 15)
	rule.Weekday = utils.Ptr(int(time.Wednesday))
	rule.TimeFrom = utils.Ptr("18:00")
	rule.TimeTo = utils.Ptr("22:00")
	rule.MinTickets = utils.Ptr(2)
	rule.TicketTypeId = utils.Ptr(uint(3))
	rule.ScreeningId = utils.Ptr(uint(5))

	assert.True(t, RuleMatches(rule, 2, 3, screening, now))

	assert.False(t, RuleMatches(rule, 1, 3, screening, now), "below min tickets")
	assert.False(t, RuleMatches(rule, 2, 4, screening, now), "wrong ticket type")

	other := screening
	other.ID = 6
	assert.False(t, RuleMatches(rule, 2, 3, other, now), "wrong screening")

	monday := screening
	monday.StartTime = time.Date(2026, 6, 8, 19, 0, 0, 0, time.UTC)
	assert.False(t, RuleMatches(rule, 2, 3, monday, now), "wrong weekday")

	matinee := screening
	matinee.StartTime = time.Date(2026, 6, 10, 14, 0, 0, 0, time.UTC)
	assert.False(t, RuleMatches(rule, 2, 3, matinee, now), "outside time window")
}

func TestRuleMatches_HalfOpenTimeWindow(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	evening := model.Screening{DTO: model.DTO{ID: 5}, StartTime: time.Date(2026, 6, 10, 19, 0, 0, 0, time.UTC)}
	matinee := model.Screening{DTO: model.DTO{ID: 5}, StartTime: time.Date(2026, 6, 10, 14, 0, 0, 0, time.UTC)}

	// lower bound only: everything from 18:00 onward
	fromOnly := activeRule(1, 10)
	fromOnly.TimeFrom = utils.Ptr("18:00")
	assert.True(t, RuleMatches(fromOnly, 1, 1, evening, now))
	assert.False(t, RuleMatches(fromOnly, 1, 1, matinee, now))

	// upper bound only: everything up to 16:00
	toOnly := activeRule(2, 10)
	toOnly.TimeTo = utils.Ptr("16:00")
	assert.False(t, RuleMatches(toOnly, 1, 1, evening, now))
	assert.True(t, RuleMatches(toOnly, 1, 1, matinee, now))

	// a clock that does not parse makes the criterion unmatchable
	broken := activeRule(3, 10)
	broken.TimeFrom = utils.Ptr("25:99")
	assert.False(t, RuleMatches(broken, 1, 1, evening, now))
}

func TestCalculatePrice_NoRules(t *testing.T) {
	ticketType := model.TicketType{DTO: model.DTO{ID: 1}, Name: "Normalny", Price: 25}
	screening := model.Screening{DTO: model.DTO{ID: 5}, StartTime: time.Date(2026, 6, 10, 19, 0, 0, 0, time.UTC)}

	quote := CalculatePrice(3, ticketType, screening, nil, time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, 75.0, quote.BasePrice)
	assert.Equal(t, 75.0, quote.FinalPrice)
	assert.Nil(t, quote.Promotion)
}

func TestCalculatePrice_HighestDiscountWins(t *testing.T) {
	ticketType := model.TicketType{DTO: model.DTO{ID: 1}, Price: 20}
	screening := model.Screening{DTO: model.DTO{ID: 5}, StartTime: time.Date(2026, 6, 10, 19, 0, 0, 0, time.UTC)}
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	rules := []model.PromotionRule{activeRule(1, 10), activeRule(2, 25), activeRule(3, 20)}

	quote := CalculatePrice(2, ticketType, screening, rules, now)
	require.NotNil(t, quote.Promotion)
	assert.Equal(t, uint(2), quote.Promotion.Id)
	assert.Equal(t, 40.0, quote.BasePrice)
	assert.Equal(t, 30.0, quote.FinalPrice)
}

func TestCalculatePrice_TieBreakLowestId(t *testing.T) {
	ticketType := model.TicketType{DTO: model.DTO{ID: 1}, Price: 20}
	screening := model.Screening{DTO: model.DTO{ID: 5}, StartTime: time.Date(2026, 6, 10, 19, 0, 0, 0, time.UTC)}
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	rules := []model.PromotionRule{activeRule(9, 25), activeRule(4, 25), activeRule(7, 25)}

	quote := CalculatePrice(1, ticketType, screening, rules, now)
	require.NotNil(t, quote.Promotion)
	assert.Equal(t, uint(4), quote.Promotion.Id)
}

func TestCalculatePrice_Rounding(t *testing.T) {
	ticketType := model.TicketType{DTO: model.DTO{ID: 1}, Price: 18}
	screening := model.Screening{DTO: model.DTO{ID: 5}, StartTime: time.Date(2026, 6, 10, 19, 0, 0, 0, time.UTC)}
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	rules := []model.PromotionRule{activeRule(1, 33)}

	quote := CalculatePrice(1, ticketType, screening, rules, now)
	assert.Equal(t, 18.0, quote.BasePrice)
	assert.Equal(t, 12.06, quote.FinalPrice)
}

func TestCalculatePrice_SkipsNonMatching(t *testing.T) {
	ticketType := model.TicketType{DTO: model.DTO{ID: 1}, Price: 20}
	screening := model.Screening{DTO: model.DTO{ID: 5}, StartTime: time.Date(2026, 6, 8, 19, 0, 0, 0, time.UTC)} // Monday
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	big := activeRule(1, 50)
	big.Weekday = utils.Ptr(int(time.Wednesday))
	small := activeRule(2, 5)

	quote := CalculatePrice(1, ticketType, screening, []model.PromotionRule{big, small}, now)
	require.NotNil(t, quote.Promotion)
	assert.Equal(t, uint(2), quote.Promotion.Id)
	assert.Equal(t, 19.0, quote.FinalPrice)
}
