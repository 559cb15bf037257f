package world

// processEmployeeDailyWork nudges performance by satisfaction
func (w *World) processEmployeeDailyWork() {
	for _, e := range w.roster.All() {
		switch {
		case e.Satisfaction() > 80:
			e.AdjustPerformance(1)
		case e.Satisfaction() < 40:
			e.AdjustPerformance(-1)
		}
	}
}

// processQualityDrift applies a random variation of up to one point
func (w *World) processQualityDrift() {
	change := w.rng.Float64()*2 - 1
	w.metrics.QualityScore = clampFloat(w.metrics.QualityScore+change, 0, 100)
}

// recomputeMetrics runs the daily metric update
func (w *World) recomputeMetrics() {
	// equipment recovers from breakdowns at one point per day
	w.metrics.ProductionEfficiency = clampFloat(w.metrics.ProductionEfficiency+1, 0, 100)
	w.refreshValuation()
}

// refreshValuation recomputes asset value and market share from current state
func (w *World) refreshValuation() {
	w.metrics.TotalAssets = w.ledger.Balance().Add(w.inventory.TotalValue())
	w.metrics.CompanyValue = w.metrics.TotalAssets

	share := 15.0 * w.market.Demand() * w.market.CompetitorIndex() * float64(w.metrics.CustomerSatisfaction) / 75.0
	w.metrics.MarketShare = clampFloat(share, 1, 60)
}
