package conform

import (
	"strconv"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

const packedDateLayout = "20060102"

// DateFromPacked converts a packed YYYYMMDD integer into a calendar date.
// Any value whose decimal-digit length is not exactly 8 is a malformed or
// missing date and yields an invalid NullDate, as does an impossible
// month/day combination. There is no further range validation.
func DateFromPacked(raw bigquery.NullInt64) bigquery.NullDate {
	if !raw.Valid {
		return bigquery.NullDate{}
	}

	s := strconv.FormatInt(raw.Int64, 10)
	if len(s) != 8 || raw.Int64 < 0 {
		return bigquery.NullDate{}
	}

	t, err := time.Parse(packedDateLayout, s)
	if err != nil {
		return bigquery.NullDate{}
	}

	return bigquery.NullDate{Date: civil.DateOf(t), Valid: true}
}
