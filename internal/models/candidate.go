package models

// AddressComponent is one typed part of a provider's address breakdown,
// for example the street number or the postal code.
type AddressComponent struct {
	LongName  string   // LongName is the full form, e.g. "Drive".
	ShortName string   // ShortName is the abbreviated form, e.g. "Dr".
	Types     []string // Types tags the component, e.g. "street_number", "route".
}

// Candidate is a single match returned by a geocoding provider.
type Candidate struct {
	FormattedAddress string             // FormattedAddress is the provider's cleaned-up address line.
	Location         Coordinates        // Location is the geocoded point.
	Components       []AddressComponent // Components is the structured address breakdown.
}
