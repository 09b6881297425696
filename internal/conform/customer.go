package conform

import (
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"retaildwh/internal/warehouse"
)

// demographicCodePrefix is the noise prefix the ERP demographic feed
// prepends to customer codes; it must be stripped for the code to join
// against the CRM-side customer_code.
const demographicCodePrefix = "NAS"

// locationCodeSeparator is the artifact separator embedded in location feed
// customer codes.
const locationCodeSeparator = "-"

// ConformCustomers cleanses and deduplicates raw CRM customer rows.
//
// Rows without a business id are dropped. The remaining rows are
// deduplicated on the business id, keeping the row with the most recent
// creation date; on equal dates the later row in input order wins (last
// write from the extract). Output is ordered by business id, so re-running
// on the same input reproduces the same rows byte for byte apart from the
// stamp.
func ConformCustomers(rows []*warehouse.RawCustomerRow, conformedAt time.Time) []*warehouse.CustomerRow {
	survivors := make(map[int64]*warehouse.RawCustomerRow)
	for _, r := range rows {
		if !r.CustomerID.Valid {
			continue
		}
		cur, ok := survivors[r.CustomerID.Int64]
		if !ok || !dateBefore(r.CreateDate, cur.CreateDate) {
			survivors[r.CustomerID.Int64] = r
		}
	}

	ids := make([]int64, 0, len(survivors))
	for id := range survivors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*warehouse.CustomerRow, 0, len(ids))
	for _, id := range ids {
		r := survivors[id]
		out = append(out, &warehouse.CustomerRow{
			CustomerID:    id,
			CustomerCode:  r.CustomerCode.StringVal,
			FirstName:     strings.TrimSpace(r.FirstName.StringVal),
			LastName:      strings.TrimSpace(r.LastName.StringVal),
			MaritalStatus: ExpandMaritalStatus(r.MaritalStatus),
			Gender:        ExpandGender(r.Gender),
			CreateDate:    r.CreateDate,
			ConformedAt:   conformedAt,
		})
	}

	return out
}

// dateBefore reports whether a sorts strictly earlier than b. An invalid
// (NULL) date sorts before every valid one.
func dateBefore(a, b bigquery.NullDate) bool {
	if !a.Valid {
		return b.Valid
	}
	if !b.Valid {
		return false
	}
	return a.Date.Before(b.Date)
}

// ConformDemographics repairs raw ERP demographic rows 1:1, no
// deduplication. The customer code loses its noise prefix, birth dates
// later than the run's reference date are nulled as implausible (the row
// itself survives), and gender is expanded with the broader synonym set.
func ConformDemographics(rows []*warehouse.RawDemographicRow, conformedAt time.Time) []*warehouse.DemographicRow {
	cutoff := civil.DateOf(conformedAt.UTC())

	out := make([]*warehouse.DemographicRow, 0, len(rows))
	for _, r := range rows {
		birthDate := r.BirthDate
		if birthDate.Valid && birthDate.Date.After(cutoff) {
			birthDate = bigquery.NullDate{}
		}

		out = append(out, &warehouse.DemographicRow{
			CustomerCode: strings.TrimPrefix(r.CustomerCode.StringVal, demographicCodePrefix),
			BirthDate:    birthDate,
			Gender:       ExpandGenderSynonyms(r.Gender),
			ConformedAt:  conformedAt,
		})
	}

	return out
}

// ConformLocations repairs raw ERP location rows 1:1, no deduplication. The
// separator artifact is stripped from the customer code and the country is
// normalized through the abbreviation table.
func ConformLocations(rows []*warehouse.RawLocationRow, conformedAt time.Time) []*warehouse.LocationRow {
	out := make([]*warehouse.LocationRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, &warehouse.LocationRow{
			CustomerCode: strings.ReplaceAll(r.CustomerCode.StringVal, locationCodeSeparator, ""),
			Country:      NormalizeCountry(r.Country),
			ConformedAt:  conformedAt,
		})
	}

	return out
}
