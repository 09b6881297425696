// Package conform implements the cleansing and conformance rules that turn
// raw source extracts into typed, validated, business-meaningful records.
//
// The dominant policy is absorb-don't-reject: malformed values are repaired
// or defaulted per the tables below, never surfaced as row-level errors. The
// only rows dropped are customers without a business id.
package conform

import (
	"strings"

	"cloud.google.com/go/bigquery"
)

// Unknown is the catch-all member of every enumeration. Unrecognized and
// NULL codes always expand to it; conformed enum columns are never NULL and
// never carry a raw passthrough.
const Unknown = "Unknown"

// Marital status members.
const (
	MaritalSingle  = "Single"
	MaritalMarried = "Married"
)

// Gender members.
const (
	GenderFemale = "Female"
	GenderMale   = "Male"
)

// Product line members.
const (
	LineMountain   = "Mountain"
	LineRoad       = "Road"
	LineTouring    = "Touring"
	LineOtherSales = "Other Sales"
)

var maritalStatusByCode = map[string]string{
	"S": MaritalSingle,
	"M": MaritalMarried,
}

// genderByCode is the CRM-side rule: single-letter codes only.
var genderByCode = map[string]string{
	"F": GenderFemale,
	"M": GenderMale,
}

// genderBySynonym is the ERP demographic rule, which accepts both the
// single-letter and the full-word spellings.
var genderBySynonym = map[string]string{
	"F":      GenderFemale,
	"FEMALE": GenderFemale,
	"M":      GenderMale,
	"MALE":   GenderMale,
}

var productLineByCode = map[string]string{
	"M": LineMountain,
	"R": LineRoad,
	"S": LineOtherSales,
	"T": LineTouring,
}

// countryByAbbreviation expands the abbreviations the ERP location feed is
// known to use. Anything absent from this table passes through unchanged.
var countryByAbbreviation = map[string]string{
	"US":  "United States",
	"USA": "United States",
	"DE":  "Germany",
}

// expand looks raw up in table after trimming and upper-casing, falling back
// to Unknown for NULL and unrecognized codes.
func expand(raw bigquery.NullString, table map[string]string) string {
	if !raw.Valid {
		return Unknown
	}
	if v, ok := table[strings.ToUpper(strings.TrimSpace(raw.StringVal))]; ok {
		return v
	}
	return Unknown
}

// ExpandMaritalStatus expands a CRM marital-status code.
func ExpandMaritalStatus(raw bigquery.NullString) string {
	return expand(raw, maritalStatusByCode)
}

// ExpandGender expands a CRM gender code (single letters only).
func ExpandGender(raw bigquery.NullString) string {
	return expand(raw, genderByCode)
}

// ExpandGenderSynonyms expands an ERP gender value, accepting single-letter
// and full-word spellings case-insensitively.
func ExpandGenderSynonyms(raw bigquery.NullString) string {
	return expand(raw, genderBySynonym)
}

// ExpandProductLine expands a CRM product-line code.
func ExpandProductLine(raw bigquery.NullString) string {
	return expand(raw, productLineByCode)
}

// NormalizeCountry expands known country abbreviations to full names. Empty
// and NULL map to Unknown; anything else passes through byte-for-byte (the
// lookup matches on the trimmed upper-cased value, but the passthrough keeps
// the original case and whitespace).
func NormalizeCountry(raw bigquery.NullString) string {
	if !raw.Valid {
		return Unknown
	}
	key := strings.ToUpper(strings.TrimSpace(raw.StringVal))
	if key == "" {
		return Unknown
	}
	if v, ok := countryByAbbreviation[key]; ok {
		return v
	}
	return raw.StringVal
}
