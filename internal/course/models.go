// Package course holds professor course history: the rows that end up in the
// course table of a rendered certificate, and the period catalog issuance
// validates against.
package course

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// CourseRecord is one taught course in one academic period.
type CourseRecord struct {
	RecipientID  string    `json:"recipient_id"`
	Period       string    `json:"period"`
	Subject      string    `json:"subject"`
	SubjectKey   string    `json:"subject_key"`
	NRC          string    `json:"nrc"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	ContactHours int       `json:"contact_hours"`
	// CrossListing groups sections taught together under one code.
	CrossListing string `json:"cross_listing,omitempty"`
}

// CourseGroup is a renderable course table row. Cross-listed sections
// collapse into a single group.
type CourseGroup struct {
	Period       string
	Subject      string
	SubjectKey   string
	NRC          string
	StartDate    time.Time
	EndDate      time.Time
	ContactHours int
	Grouped      bool
}

// GroupCrossListed collapses records sharing a cross-listing code into one
// group: distinct subjects joined with "/", NRCs joined with "/", contact
// hours summed. Records without a code pass through one-to-one. Output order
// follows first appearance in the input.
func GroupCrossListed(records []CourseRecord) []CourseGroup {
	type bucket struct {
		records []CourseRecord
		order   int
	}
	buckets := make(map[string]*bucket)
	var keys []string

	for i, rec := range records {
		key := rec.CrossListing
		if key == "" {
			// Synthetic key keeps uncrossed records independent.
			key = "single:" + strconv.Itoa(i)
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{order: len(keys)}
			buckets[key] = b
			keys = append(keys, key)
		}
		b.records = append(b.records, rec)
	}

	sort.Slice(keys, func(i, j int) bool {
		return buckets[keys[i]].order < buckets[keys[j]].order
	})

	groups := make([]CourseGroup, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		if len(b.records) == 1 {
			rec := b.records[0]
			groups = append(groups, CourseGroup{
				Period:       rec.Period,
				Subject:      rec.Subject,
				SubjectKey:   rec.SubjectKey,
				NRC:          rec.NRC,
				StartDate:    rec.StartDate,
				EndDate:      rec.EndDate,
				ContactHours: rec.ContactHours,
			})
			continue
		}

		base := b.records[0]
		var subjects []string
		seen := make(map[string]bool)
		nrcs := make([]string, 0, len(b.records))
		hours := 0
		for _, rec := range b.records {
			if !seen[rec.Subject] {
				seen[rec.Subject] = true
				subjects = append(subjects, rec.Subject)
			}
			nrcs = append(nrcs, rec.NRC)
			hours += rec.ContactHours
		}
		groups = append(groups, CourseGroup{
			Period:       base.Period,
			Subject:      strings.Join(subjects, "/"),
			SubjectKey:   base.SubjectKey,
			NRC:          strings.Join(nrcs, "/"),
			StartDate:    base.StartDate,
			EndDate:      base.EndDate,
			ContactHours: hours,
			Grouped:      true,
		})
	}
	return groups
}

// FilterPeriods returns the records whose period is in the given set.
// An empty set returns the input unchanged.
func FilterPeriods(records []CourseRecord, periods []string) []CourseRecord {
	if len(periods) == 0 {
		return records
	}
	want := make(map[string]bool, len(periods))
	for _, p := range periods {
		want[p] = true
	}
	var out []CourseRecord
	for _, rec := range records {
		if want[rec.Period] {
			out = append(out, rec)
		}
	}
	return out
}

// FormatPeriod converts a period code to its display form: "<year>25" is
// spring, "<year>35" is fall, "<year>30" is the interperiod. Anything that
// does not match passes through verbatim.
func FormatPeriod(period string) string {
	if strings.Contains(period, "Primavera") ||
		strings.Contains(period, "Otoño") ||
		strings.Contains(period, "Interperiodo") {
		return period
	}
	if len(period) != 6 {
		return period
	}
	year := period[:4]
	switch period[4:] {
	case "25":
		return "Primavera " + year
	case "35":
		return "Otoño " + year
	case "30":
		return "Interperiodo " + year
	}
	return period
}
