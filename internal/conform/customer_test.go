package conform

import (
	"reflect"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"retaildwh/internal/warehouse"
)

func nullString(s string) bigquery.NullString {
	return bigquery.NullString{StringVal: s, Valid: true}
}

func nullInt(n int64) bigquery.NullInt64 {
	return bigquery.NullInt64{Int64: n, Valid: true}
}

func nullDate(y int, m time.Month, d int) bigquery.NullDate {
	return bigquery.NullDate{Date: civil.Date{Year: y, Month: m, Day: d}, Valid: true}
}

var testStamp = time.Date(2026, time.January, 15, 8, 0, 0, 0, time.UTC)

func TestConformCustomers_DropsNullBusinessID(t *testing.T) {
	raw := []*warehouse.RawCustomerRow{
		{CustomerID: bigquery.NullInt64{}, CustomerCode: nullString("AW1")},
		{CustomerID: nullInt(7), CustomerCode: nullString("AW7")},
	}

	got := ConformCustomers(raw, testStamp)
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].CustomerID != 7 {
		t.Errorf("CustomerID = %d, want 7", got[0].CustomerID)
	}
}

func TestConformCustomers_DeduplicatesOnLatestCreateDate(t *testing.T) {
	raw := []*warehouse.RawCustomerRow{
		{CustomerID: nullInt(1), FirstName: nullString("old"), CreateDate: nullDate(2024, time.January, 1)},
		{CustomerID: nullInt(1), FirstName: nullString("new"), CreateDate: nullDate(2025, time.June, 1)},
		{CustomerID: nullInt(1), FirstName: nullString("middle"), CreateDate: nullDate(2024, time.December, 1)},
		{CustomerID: nullInt(2), FirstName: nullString("only")},
	}

	got := ConformCustomers(raw, testStamp)
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}
	if got[0].FirstName != "new" {
		t.Errorf("survivor FirstName = %q, want %q", got[0].FirstName, "new")
	}
}

func TestConformCustomers_AtMostOnePerKey(t *testing.T) {
	raw := []*warehouse.RawCustomerRow{
		{CustomerID: nullInt(5), CreateDate: nullDate(2024, time.March, 1)},
		{CustomerID: nullInt(5), CreateDate: nullDate(2024, time.March, 1)},
		{CustomerID: nullInt(5), CreateDate: nullDate(2024, time.March, 2)},
		{CustomerID: nullInt(9)},
		{CustomerID: nullInt(9)},
	}

	got := ConformCustomers(raw, testStamp)

	seen := make(map[int64]int)
	for _, row := range got {
		seen[row.CustomerID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("customer %d appears %d times, want exactly 1", id, n)
		}
	}
	if len(seen) != 2 {
		t.Errorf("got %d distinct ids, want 2", len(seen))
	}
}

func TestConformCustomers_EqualCreateDateTiebreak(t *testing.T) {
	// Later input row wins on equal creation dates.
	raw := []*warehouse.RawCustomerRow{
		{CustomerID: nullInt(3), FirstName: nullString("first"), CreateDate: nullDate(2024, time.May, 5)},
		{CustomerID: nullInt(3), FirstName: nullString("second"), CreateDate: nullDate(2024, time.May, 5)},
	}

	got := ConformCustomers(raw, testStamp)
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].FirstName != "second" {
		t.Errorf("survivor FirstName = %q, want %q", got[0].FirstName, "second")
	}
}

func TestConformCustomers_Idempotent(t *testing.T) {
	raw := []*warehouse.RawCustomerRow{
		{CustomerID: nullInt(2), FirstName: nullString(" Jane "), MaritalStatus: nullString("M"), Gender: nullString("F"), CreateDate: nullDate(2024, time.July, 1)},
		{CustomerID: nullInt(1), FirstName: nullString("John"), CreateDate: nullDate(2023, time.July, 1)},
		{CustomerID: nullInt(2), FirstName: nullString("Janet"), CreateDate: nullDate(2023, time.July, 1)},
	}

	first := ConformCustomers(raw, testStamp)
	second := ConformCustomers(raw, testStamp)

	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over the same raw input produced different conformed rows")
	}
}

func TestConformCustomers_TrimsAndExpands(t *testing.T) {
	raw := []*warehouse.RawCustomerRow{
		{
			CustomerID:    nullInt(10),
			CustomerCode:  nullString("AW00000010"),
			FirstName:     nullString("  Ada  "),
			LastName:      nullString("\tLovelace "),
			MaritalStatus: nullString("S"),
			Gender:        nullString("F"),
		},
	}

	got := ConformCustomers(raw, testStamp)[0]
	if got.FirstName != "Ada" || got.LastName != "Lovelace" {
		t.Errorf("names = %q %q, want trimmed", got.FirstName, got.LastName)
	}
	if got.MaritalStatus != MaritalSingle {
		t.Errorf("MaritalStatus = %q, want %q", got.MaritalStatus, MaritalSingle)
	}
	if got.Gender != GenderFemale {
		t.Errorf("Gender = %q, want %q", got.Gender, GenderFemale)
	}
	if !got.ConformedAt.Equal(testStamp) {
		t.Errorf("ConformedAt = %v, want %v", got.ConformedAt, testStamp)
	}
}

func TestConformDemographics_StripsPrefixAndRejectsFutureBirthDates(t *testing.T) {
	raw := []*warehouse.RawDemographicRow{
		{CustomerCode: nullString("NASAW00000011"), BirthDate: nullDate(1980, time.April, 2), Gender: nullString("female")},
		{CustomerCode: nullString("AW00000012"), BirthDate: nullDate(2030, time.January, 1), Gender: nullString("M")},
	}

	got := ConformDemographics(raw, testStamp)
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2 (no rows dropped)", len(got))
	}

	if got[0].CustomerCode != "AW00000011" {
		t.Errorf("CustomerCode = %q, want prefix stripped", got[0].CustomerCode)
	}
	if !got[0].BirthDate.Valid {
		t.Error("plausible birth date should survive")
	}
	if got[0].Gender != GenderFemale {
		t.Errorf("Gender = %q, want %q", got[0].Gender, GenderFemale)
	}

	if got[1].CustomerCode != "AW00000012" {
		t.Errorf("CustomerCode = %q, want unchanged without prefix", got[1].CustomerCode)
	}
	if got[1].BirthDate.Valid {
		t.Error("birth date after the reference date must be nulled")
	}
	if got[1].Gender != GenderMale {
		t.Errorf("Gender = %q, want %q", got[1].Gender, GenderMale)
	}
}

func TestConformDemographics_BirthDateOnReferenceDateSurvives(t *testing.T) {
	ref := civil.DateOf(testStamp)
	raw := []*warehouse.RawDemographicRow{
		{CustomerCode: nullString("AW1"), BirthDate: bigquery.NullDate{Date: ref, Valid: true}},
	}

	got := ConformDemographics(raw, testStamp)
	if !got[0].BirthDate.Valid {
		t.Error("birth date equal to the reference date is not later than it and must survive")
	}
}

func TestConformLocations_StripsSeparatorAndNormalizesCountry(t *testing.T) {
	raw := []*warehouse.RawLocationRow{
		{CustomerCode: nullString("AW-00000013"), Country: nullString("us")},
	}

	got := ConformLocations(raw, testStamp)
	if got[0].CustomerCode != "AW00000013" {
		t.Errorf("CustomerCode = %q, want separator stripped", got[0].CustomerCode)
	}
	if got[0].Country != "United States" {
		t.Errorf("Country = %q, want %q", got[0].Country, "United States")
	}
}

func TestNormalizeCountry_FixtureTable(t *testing.T) {
	tests := []struct {
		name string
		raw  bigquery.NullString
		want string
	}{
		{"lowercase two-letter us", nullString("us"), "United States"},
		{"three-letter usa", nullString("USA"), "United States"},
		{"lowercase de", nullString("de"), "Germany"},
		{"empty string", nullString(""), Unknown},
		{"null", bigquery.NullString{}, Unknown},
		{"unrecognized passes through unchanged", nullString("fr"), "fr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeCountry(tt.raw)
			if got != tt.want {
				t.Errorf("NormalizeCountry(%v) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeCountry_PassthroughKeepsWhitespace(t *testing.T) {
	// The lookup matches on the trimmed value, but an unmatched country is
	// passed through byte for byte.
	got := NormalizeCountry(nullString("  France "))
	if got != "  France " {
		t.Errorf("NormalizeCountry = %q, want original bytes", got)
	}
}
