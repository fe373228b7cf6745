package report

import (
	"sync/atomic"
	"time"
)

// SearchMetric describes the work done for one decision.
type SearchMetric struct {
	Duration     time.Duration
	DepthCharges int
	Failures     int
	MeanDepth    float64
	Overridden   bool // one-ply pass replaced the sampled choice
}

type Collector interface {
	Start()
	AddDepthCharge(depth int)
	AddFailure()
	SetOverridden(value bool)
	Complete() SearchMetric
}

type collector struct {
	startTime    time.Time
	depthCharges atomic.Int64
	failures     atomic.Int64
	totalDepth   atomic.Int64
	overridden   atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.depthCharges.Store(0)
	m.failures.Store(0)
	m.totalDepth.Store(0)
	m.overridden.Store(false)
}

func (m *collector) AddDepthCharge(depth int) {
	m.depthCharges.Add(1)
	m.totalDepth.Add(int64(depth))
}

func (m *collector) AddFailure() {
	m.failures.Add(1)
}

func (m *collector) SetOverridden(value bool) {
	m.overridden.Store(value)
}

func (m *collector) Complete() SearchMetric {
	charges := m.depthCharges.Load()
	var mean float64
	if charges > 0 {
		mean = float64(m.totalDepth.Load()) / float64(charges)
	}
	return SearchMetric{
		Duration:     time.Since(m.startTime),
		DepthCharges: int(charges),
		Failures:     int(m.failures.Load()),
		MeanDepth:    mean,
		Overridden:   m.overridden.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                 {}
func (m *dummyCollector) AddDepthCharge(int)     {}
func (m *dummyCollector) AddFailure()            {}
func (m *dummyCollector) SetOverridden(bool)     {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
