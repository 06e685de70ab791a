package course

// PeriodCatalog is the set of academic periods the issuance engine accepts.
type PeriodCatalog struct {
	known map[string]struct{}
}

func NewPeriodCatalog(periods []string) *PeriodCatalog {
	known := make(map[string]struct{}, len(periods))
	for _, p := range periods {
		known[p] = struct{}{}
	}
	return &PeriodCatalog{known: known}
}

// Known reports whether the period is in the catalog.
func (c *PeriodCatalog) Known(period string) bool {
	_, ok := c.known[period]
	return ok
}
