package tick

import (
	"fmt"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// MarketProcessor reports market position
type MarketProcessor struct {
	BaseProcessor
	logger common.Logger
}

func NewMarketProcessor(logger common.Logger) *MarketProcessor {
	return &MarketProcessor{logger: orNoOp(logger)}
}

func (p *MarketProcessor) Name() string { return "market" }

func (p *MarketProcessor) OnMonthTick(w *world.World) error {
	if w == nil {
		return errNoWorld
	}
	p.logger.Log(common.LevelInfo, fmt.Sprintf("Market share %.1f%%", w.Metrics().MarketShare), map[string]interface{}{
		"demand":           w.Market().Demand(),
		"competitor_index": w.Market().CompetitorIndex(),
	})
	return nil
}

func (p *MarketProcessor) OnQuarterTick(w *world.World) error {
	if w == nil {
		return errNoWorld
	}
	p.report("Quarterly market report", w)
	return nil
}

func (p *MarketProcessor) OnYearTick(w *world.World) error {
	if w == nil {
		return errNoWorld
	}
	p.report("Annual market report", w)
	return nil
}

func (p *MarketProcessor) report(title string, w *world.World) {
	metadata := map[string]interface{}{
		"market_share":          w.Metrics().MarketShare,
		"customer_satisfaction": w.Metrics().CustomerSatisfaction,
		"demand":                w.Market().Demand(),
	}
	for _, product := range w.Market().Products() {
		metadata["demand_"+product] = w.Market().ProductDemand(product)
	}
	p.logger.Log(common.LevelInfo, title, metadata)
}

// DefaultProcessors returns the stock processors in their canonical fan-out order
func DefaultProcessors(logger common.Logger) []Processor {
	return []Processor{
		NewProductionProcessor(logger),
		NewFinanceProcessor(logger),
		NewHRProcessor(logger),
		NewLogisticsProcessor(logger),
		NewMarketProcessor(logger),
	}
}
