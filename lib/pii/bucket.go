package pii

// Review-tier thresholds. At or above High an entity is pre-selected by
// review tooling; below Low it is surfaced but ignored by default.
const (
	ConfidenceHigh = 0.85
	ConfidenceLow  = 0.50
)

// Buckets partitions entities into review tiers.
type Buckets struct {
	High   []Entity `json:"high"`
	Medium []Entity `json:"medium"`
	Low    []Entity `json:"low"`
}

// Bucket classifies entities by confidence. Pure: no side effects, input
// order preserved within each tier.
func Bucket(entities []Entity) Buckets {
	var b Buckets
	for _, e := range entities {
		switch {
		case e.Confidence >= ConfidenceHigh:
			b.High = append(b.High, e)
		case e.Confidence >= ConfidenceLow:
			b.Medium = append(b.Medium, e)
		default:
			b.Low = append(b.Low, e)
		}
	}
	return b
}
