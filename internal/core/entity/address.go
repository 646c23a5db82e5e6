package entity

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Address is the postal address block shared by companies and suppliers.
type Address struct {
	Street     string  `db:"street" json:"street"`
	Number     string  `db:"number" json:"number"`
	Complement *string `db:"complement" json:"complement"`
	District   string  `db:"district" json:"district"`
	City       string  `db:"city" json:"city"`
	State      string  `db:"state" json:"state"`
	Zip        string  `db:"zip" json:"zip"`
	Country    string  `db:"country" json:"country"`
}

// Rules returns field rules for a complete address. zipMax differs between
// companies (8) and suppliers (10).
func (a *Address) Rules(zipMax int) []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(&a.Street, validation.Required, validation.Length(1, 255)),
		validation.Field(&a.Number, validation.Required, validation.Length(1, 20)),
		validation.Field(&a.District, validation.Required, validation.Length(1, 255)),
		validation.Field(&a.City, validation.Required, validation.Length(1, 255)),
		validation.Field(&a.State, validation.Required, validation.Length(2, 2)),
		validation.Field(&a.Zip, validation.Required, validation.Length(1, zipMax)),
		validation.Field(&a.Country, validation.Required, validation.Length(1, 255)),
	}
}

// MissingFields lists required address fields that are blank, by JSON name.
func (a *Address) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"street", a.Street},
		{"number", a.Number},
		{"district", a.District},
		{"city", a.City},
		{"state", a.State},
		{"zip", a.Zip},
		{"country", a.Country},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
