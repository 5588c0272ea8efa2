package report

import "strings"

type Metric string

const (
	Profit         Metric = "profit"
	Staffing       Metric = "staffing"
	Damages        Metric = "damages"
	CollectionRate Metric = "collectionrate"
)

// retention is the older name of collectionrate.
const retentionAlias = "retention"

var labels = map[Metric]string{
	Profit:         "Profit",
	Staffing:       "Demand vs Staffing Capacity",
	Damages:        "Maintenance Cost",
	CollectionRate: "Customer Retention Rate",
}

// Metrics lists the recognized metrics in dashboard order.
func Metrics() []Metric {
	return []Metric{Profit, Staffing, Damages, CollectionRate}
}

// ParseMetric is case-insensitive and ignores surrounding whitespace. Unknown
// input yields Profit and false.
func ParseMetric(s string) (Metric, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == retentionAlias {
		return CollectionRate, true
	}
	m := Metric(key)
	if _, ok := labels[m]; ok {
		return m, true
	}
	return Profit, false
}

func (m Metric) Label() string {
	if l, ok := labels[m]; ok {
		return l
	}
	return labels[Profit]
}

func (m Metric) String() string { return string(m) }
