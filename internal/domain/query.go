package domain

type Scope string

const (
	// ScopeEntity asks for the value of a single entity.
	ScopeEntity Scope = "entity"
	// ScopeNation asks for the national aggregate; Entity is the nation itself.
	ScopeNation Scope = "nation"
)

type AggregationQuery struct {
	Year   Year
	Sector SectorID
	Entity CanonicalEntity
	Scope  Scope
}

// ValueSource records which step produced a data point.
type ValueSource string

const (
	SourceDirect   ValueSource = "direct"
	SourceFallback ValueSource = "fallback"
	SourceWeighted ValueSource = "weighted"
	SourceSum      ValueSource = "sum"
	SourceRollup   ValueSource = "rollup"
	SourceNone     ValueSource = "none"
)

// ResolvedDataPoint carries Value == nil for "no data". A nil value must be
// shown as missing, never as zero.
type ResolvedDataPoint struct {
	Entity          CanonicalEntity `json:"entity"`
	Sector          SectorID        `json:"sector"`
	Year            Year            `json:"year"`
	Value           *float64        `json:"value"`
	MonetaryValue   *float64        `json:"monetary_value,omitempty"`
	SharePercentage *float64        `json:"share_percentage,omitempty"`
	Source          ValueSource     `json:"source"`
}

func (p ResolvedDataPoint) HasValue() bool {
	return p.Value != nil
}

// ValueOr returns the value or def when there is none.
func (p ResolvedDataPoint) ValueOr(def float64) float64 {
	if p.Value == nil {
		return def
	}
	return *p.Value
}

func Float(v float64) *float64 {
	return &v
}
