package market

import (
	"fmt"
	"math/rand"
	"sort"
)

// Bands applied to every market index
const (
	MinDemand          = 0.5
	MaxDemand          = 2.0
	MinCompetitorIndex = 0.8
	MaxCompetitorIndex = 1.2

	// Weekly drift is uniform in [-band, +band]
	DemandDriftBand     = 0.10
	CompetitorDriftBand = 0.05
	ProductDriftBand    = 0.10
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Drift summarizes one weekly update
type Drift struct {
	DemandChange     float64
	CompetitorChange float64
}

// State holds the demand multiplier, competitor price index and per-product demand
type State struct {
	demand          float64
	competitorIndex float64
	productDemand   map[string]float64
}

// New creates a neutral market
func New() *State {
	return &State{
		demand:          1.0,
		competitorIndex: 1.0,
		productDemand:   make(map[string]float64),
	}
}

// Demand returns the overall demand multiplier
func (s *State) Demand() float64 { return s.demand }

// CompetitorIndex returns the competitor price index
func (s *State) CompetitorIndex() float64 { return s.competitorIndex }

// ProductDemand returns a product's demand weight, 1.0 if untracked
func (s *State) ProductDemand(productID string) float64 {
	if d, ok := s.productDemand[productID]; ok {
		return d
	}
	return 1.0
}

// Products returns tracked product ids in sorted order
func (s *State) Products() []string {
	ids := make([]string, 0, len(s.productDemand))
	for id := range s.productDemand {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TrackProduct starts tracking demand for a product
func (s *State) TrackProduct(productID string, weight float64) error {
	if productID == "" {
		return ErrInvalidProduct
	}
	s.productDemand[productID] = clamp(weight, MinDemand, MaxDemand)
	return nil
}

// BumpDemand shifts the overall demand multiplier within its band
func (s *State) BumpDemand(delta float64) {
	s.demand = clamp(s.demand+delta, MinDemand, MaxDemand)
}

// WeeklyDrift applies bounded random drift to every index
func (s *State) WeeklyDrift(rng *rand.Rand) Drift {
	before := s.demand
	s.demand = clamp(s.demand+(rng.Float64()*2-1)*DemandDriftBand, MinDemand, MaxDemand)

	beforeCompetitor := s.competitorIndex
	s.competitorIndex = clamp(s.competitorIndex+(rng.Float64()*2-1)*CompetitorDriftBand, MinCompetitorIndex, MaxCompetitorIndex)

	for _, id := range s.Products() {
		s.productDemand[id] = clamp(s.productDemand[id]+(rng.Float64()*2-1)*ProductDriftBand, MinDemand, MaxDemand)
	}

	return Drift{
		DemandChange:     s.demand - before,
		CompetitorChange: s.competitorIndex - beforeCompetitor,
	}
}

// Snapshot is the serializable form of the market
type Snapshot struct {
	Demand          float64            `json:"demand"`
	CompetitorIndex float64            `json:"competitor_index"`
	ProductDemand   map[string]float64 `json:"product_demand"`
}

// Snapshot captures the market
func (s *State) Snapshot() Snapshot {
	products := make(map[string]float64, len(s.productDemand))
	for k, v := range s.productDemand {
		products[k] = v
	}
	return Snapshot{Demand: s.demand, CompetitorIndex: s.competitorIndex, ProductDemand: products}
}

// Restore overwrites the market with a snapshot
func (s *State) Restore(snap Snapshot) error {
	if snap.Demand < MinDemand || snap.Demand > MaxDemand {
		return fmt.Errorf("%w: demand %.3f", ErrDemandOutOfRange, snap.Demand)
	}
	if snap.CompetitorIndex < MinCompetitorIndex || snap.CompetitorIndex > MaxCompetitorIndex {
		return fmt.Errorf("%w: competitor index %.3f", ErrDemandOutOfRange, snap.CompetitorIndex)
	}
	s.demand = snap.Demand
	s.competitorIndex = snap.CompetitorIndex
	s.productDemand = make(map[string]float64, len(snap.ProductDemand))
	for k, v := range snap.ProductDemand {
		s.productDemand[k] = clamp(v, MinDemand, MaxDemand)
	}
	return nil
}
