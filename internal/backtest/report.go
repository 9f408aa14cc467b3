package backtest

import (
	"math"

	"github.com/Alias1177/FootballPredictor/models"
	"github.com/shopspring/decimal"
)

// Simulated markets
const (
	MarketOutcome = "1x2"
	MarketBTTS    = "btts"
	MarketOver25  = "over25"
)

// Odds assumed when a prediction carries no bookmaker price
const (
	fallbackOutcomeOdds = 2.0
	fallbackBinaryOdds  = 1.9
)

// betGate is the leading probability a market needs before a bet is placed
const betGate = 50

var (
	oneUnit = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// ledger simulates flat one-unit stakes on a single market
type ledger struct {
	bets     int
	wins     int
	staked   decimal.Decimal
	returned decimal.Decimal
}

func (l *ledger) place(won bool, odds float64) {
	l.bets++
	l.staked = l.staked.Add(oneUnit)
	if won {
		l.wins++
		l.returned = l.returned.Add(decimal.NewFromFloat(odds))
	}
}

func (l *ledger) roi() decimal.Decimal {
	if l.bets == 0 {
		return decimal.Zero
	}
	return l.returned.Sub(l.staked).Div(l.staked).Mul(hundred).Round(2)
}

func (l *ledger) result() models.MarketROI {
	return models.MarketROI{
		Bets:     l.bets,
		Wins:     l.wins,
		Staked:   l.staked.InexactFloat64(),
		Returned: l.returned.InexactFloat64(),
		Profit:   l.returned.Sub(l.staked).InexactFloat64(),
		ROI:      l.roi().InexactFloat64(),
	}
}

func roiDecimal(r models.MarketROI) decimal.Decimal {
	return decimal.NewFromFloat(r.ROI)
}

type counter struct {
	correct int
	total   int
}

func (c *counter) add(ok bool) {
	c.total++
	if ok {
		c.correct++
	}
}

func (c counter) rate() float64 {
	return percent(c.correct, c.total)
}

// buildReport aggregates evaluated matches. It has no side effects, so the
// same evaluations always produce the same report.
func buildReport(opts Options, evals []evaluation, total int) *models.BacktestReport {
	var outcome, btts, exact counter
	var predictedOver, actualOver int
	tiers := map[string]*counter{TierHigh: {}, TierMedium: {}, TierLow: {}}
	lines := make(map[string]*counter, len(evaluatedLines))
	markets := map[string]*ledger{MarketOutcome: {}, MarketBTTS: {}, MarketOver25: {}}
	predicted := make(map[models.Outcome]int, 3)
	actual := make(map[models.Outcome]int, 3)
	expected := make([]float64, 0, len(evals))
	goals := make([]float64, 0, len(evals))
	for _, line := range evaluatedLines {
		lines[line.key] = &counter{}
	}

	results := make([]models.BacktestMatchResult, 0, len(evals))
	for _, ev := range evals {
		r := ev.result
		results = append(results, r)

		outcome.add(r.OutcomeCorrect)
		tiers[r.OutcomeTier].add(r.OutcomeCorrect)
		btts.add(r.BTTSCorrect)
		exact.add(r.ExactScore)
		for key, ok := range r.OverUnderCorrect {
			lines[key].add(ok)
		}

		predicted[r.PredictedOutcome]++
		actual[r.ActualOutcome]++
		if ev.prediction.OverUnder.Lines["2.5"].Over > 50 {
			predictedOver++
		}
		if r.ActualGoals > 2 {
			actualOver++
		}

		expected = append(expected, r.ExpectedGoals)
		goals = append(goals, float64(r.ActualGoals))

		placeBets(markets, ev)
	}

	n := len(evals)
	report := &models.BacktestReport{
		Start:               opts.Start,
		End:                 opts.End,
		LeagueID:            opts.LeagueID,
		TotalMatches:        total,
		Evaluated:           n,
		Skipped:             total - n,
		OutcomeAccuracy:     outcome.rate(),
		ByConfidence:        make(map[string]models.TierAccuracy, len(tiers)),
		BTTSAccuracy:        btts.rate(),
		OverUnderAccuracy:   make(map[string]float64, len(lines)),
		ExactScoreRate:      exact.rate(),
		Goals:               goalsAccuracy(expected, goals),
		ROI:                 make(map[string]models.MarketROI, len(markets)),
		PredictedOutcomes:   distribution(predicted, n),
		ActualOutcomes:      distribution(actual, n),
		PredictedOver25Rate: percent(predictedOver, n),
		ActualOver25Rate:    percent(actualOver, n),
		Matches:             results,
	}
	for tier, c := range tiers {
		report.ByConfidence[tier] = models.TierAccuracy{Total: c.total, Correct: c.correct, Accuracy: c.rate()}
	}
	for key, c := range lines {
		report.OverUnderAccuracy[key] = c.rate()
	}
	for market, l := range markets {
		report.ROI[market] = l.result()
	}
	report.Insights = insights(report)

	return report
}

// placeBets stakes one unit on the predicted side of every market whose
// leading probability clears the gate
func placeBets(markets map[string]*ledger, ev evaluation) {
	p, r := ev.prediction, ev.result
	odds := p.Odds

	if lead := math.Max(p.MatchOutcome.HomeWin, math.Max(p.MatchOutcome.Draw, p.MatchOutcome.AwayWin)); lead > betGate {
		price := fallbackOutcomeOdds
		if odds.HasMatchWinner() {
			switch r.PredictedOutcome {
			case models.OutcomeHome:
				price = odds.MatchWinner.Home
			case models.OutcomeDraw:
				price = odds.MatchWinner.Draw
			case models.OutcomeAway:
				price = odds.MatchWinner.Away
			}
		}
		markets[MarketOutcome].place(r.OutcomeCorrect, price)
	}

	if math.Max(p.BTTS.Yes, p.BTTS.No) > betGate {
		yes := p.BTTS.Yes > p.BTTS.No
		price := fallbackBinaryOdds
		if odds.HasBTTS() {
			price = odds.BTTS.No
			if yes {
				price = odds.BTTS.Yes
			}
		}
		markets[MarketBTTS].place(yes == bothScored(ev.match), price)
	}

	line := p.OverUnder.Lines["2.5"]
	if math.Max(line.Over, line.Under) > betGate {
		over := line.Over > line.Under
		price := fallbackBinaryOdds
		if odds.HasTotals() {
			price = odds.OverUnder.Under25
			if over {
				price = odds.OverUnder.Over25
			}
		}
		markets[MarketOver25].place(over == (r.ActualGoals > 2), price)
	}
}

func bothScored(m models.Match) bool {
	return *m.HomeGoals > 0 && *m.AwayGoals > 0
}

func goalsAccuracy(expected, actual []float64) models.GoalsAccuracy {
	n := len(expected)
	if n == 0 {
		return models.GoalsAccuracy{}
	}

	var sumErr, sumExp, sumAct float64
	for i := range expected {
		sumErr += math.Abs(expected[i] - actual[i])
		sumExp += expected[i]
		sumAct += actual[i]
	}

	return models.GoalsAccuracy{
		MeanAbsoluteError: round(sumErr/float64(n), 2),
		Correlation:       round(pearson(expected, actual), 2),
		AvgPredicted:      round(sumExp/float64(n), 2),
		AvgActual:         round(sumAct/float64(n), 2),
	}
}

// pearson returns the correlation coefficient, or 0 when either series is flat
func pearson(x, y []float64) float64 {
	n := float64(len(x))
	if n < 2 {
		return 0
	}

	var mx, my float64
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= n
	my /= n

	var cov, vx, vy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0
	}
	return cov / math.Sqrt(vx*vy)
}

func distribution(counts map[models.Outcome]int, n int) models.OutcomeDistribution {
	return models.OutcomeDistribution{
		Home: percent(counts[models.OutcomeHome], n),
		Draw: percent(counts[models.OutcomeDraw], n),
		Away: percent(counts[models.OutcomeAway], n),
	}
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round(float64(part)/float64(total)*100, 1)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
