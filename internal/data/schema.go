package data

import (
	"strings"
)

type Kind int

const (
	KindNumber Kind = iota
	KindText
)

func (k Kind) String() string {
	if k == KindText {
		return "text"
	}
	return "number"
}

type Column struct {
	Name string
	Kind Kind
}

const (
	ColAge        = "AGE"
	ColBldgDesc   = "BLDG_DESC"
	ColBldgFeet   = "BLDG_FEET"
	ColGarage     = "GARAGE"
	ColFireplace  = "FIREPLACE"
	ColBasement   = "BASEMENT"
	ColBsmtDevl   = "BSMTDEVL"
	ColLatitude   = "LATITUDE"
	ColLongitude  = "LONGITUDE"
	ColAssessment = "ASSESSMENT"
)

// Schema lists every column a housing file must carry, in file order of the
// cleaned datasets.
var Schema = []Column{
	{Name: ColAge, Kind: KindNumber},
	{Name: ColBldgDesc, Kind: KindText},
	{Name: ColBldgFeet, Kind: KindNumber},
	{Name: ColGarage, Kind: KindText},
	{Name: ColFireplace, Kind: KindText},
	{Name: ColBasement, Kind: KindText},
	{Name: ColBsmtDevl, Kind: KindText},
	{Name: ColLatitude, Kind: KindNumber},
	{Name: ColLongitude, Kind: KindNumber},
	{Name: ColAssessment, Kind: KindNumber},
}

// LookupColumn returns the schema entry for name.
func LookupColumn(name string) (Column, bool) {
	for _, c := range Schema {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Record is one typed housing row. Missing numbers are NaN, missing text is "".
type Record struct {
	Age        float64
	BldgDesc   string
	BldgFeet   float64
	Garage     string
	Fireplace  string
	Basement   string
	BsmtDevl   string
	Latitude   float64
	Longitude  float64
	Assessment float64
}

// Number returns the numeric field stored under name.
func (r *Record) Number(name string) (float64, bool) {
	switch name {
	case ColAge:
		return r.Age, true
	case ColBldgFeet:
		return r.BldgFeet, true
	case ColLatitude:
		return r.Latitude, true
	case ColLongitude:
		return r.Longitude, true
	case ColAssessment:
		return r.Assessment, true
	}
	return 0, false
}

// Text returns the text field stored under name.
func (r *Record) Text(name string) (string, bool) {
	switch name {
	case ColBldgDesc:
		return r.BldgDesc, true
	case ColGarage:
		return r.Garage, true
	case ColFireplace:
		return r.Fireplace, true
	case ColBasement:
		return r.Basement, true
	case ColBsmtDevl:
		return r.BsmtDevl, true
	}
	return "", false
}

func (r *Record) setNumber(name string, v float64) {
	switch name {
	case ColAge:
		r.Age = v
	case ColBldgFeet:
		r.BldgFeet = v
	case ColLatitude:
		r.Latitude = v
	case ColLongitude:
		r.Longitude = v
	case ColAssessment:
		r.Assessment = v
	}
}

func (r *Record) setText(name, v string) {
	switch name {
	case ColBldgDesc:
		r.BldgDesc = v
	case ColGarage:
		r.Garage = v
	case ColFireplace:
		r.Fireplace = v
	case ColBasement:
		r.Basement = v
	case ColBsmtDevl:
		r.BsmtDevl = v
	}
}

// missingTokens mirrors the default NA markers of common CSV tooling.
var missingTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"NaN":  true,
	"nan":  true,
	"-NaN": true,
	"-nan": true,
	"null": true,
	"NULL": true,
	"None": true,
	"<NA>": true,
	"#N/A": true,
	"#NA":  true,
}

// IsMissing reports whether a raw CSV field denotes a missing value.
func IsMissing(raw string) bool {
	return missingTokens[strings.TrimSpace(raw)]
}
