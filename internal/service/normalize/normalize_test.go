package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Jane.Doe@Example.COM", "jane.doe@example.com"},
		{"trims", "  jane@example.com  ", "jane@example.com"},
		{"empty", "", ""},
		{"already_normal", "tech@hvac.co", "tech@hvac.co"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Email(tt.in))
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		countryCode string
		want        string
	}{
		{"formatted_us_number", "(555) 123-4567", "1", "+15551234567"},
		{"dotted", "555.123.4567", "1", "+15551234567"},
		{"eleven_digits_with_country", "1 555 123 4567", "1", "+15551234567"},
		{"already_e164", "+15551234567", "1", "+15551234567"},
		{"international_ambiguous", "442071234567", "1", "+442071234567"},
		{"short_number", "12345", "1", "+12345"},
		{"uk_country_code", "2071234567", "44", "+442071234567"},
		{"no_digits", "call me", "1", "call me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Phone(tt.in, tt.countryCode))
		})
	}
}

func TestRegionCode(t *testing.T) {
	assert.Equal(t, "CA", RegionCode("ca"))
	assert.Equal(t, "NY", RegionCode(" ny "))
	assert.Equal(t, "California", RegionCode("California"))
	assert.Equal(t, "", RegionCode(""))
}

func TestPostalCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"five_digit", "94105", "94105"},
		{"zip_plus_four", "94105-1234", "94105-1234"},
		{"zip_plus_four_spaced", "94105 1234", "94105-1234"},
		{"embedded", "ZIP: 94105, USA", "94105"},
		{"no_match", "ABC 123", "ABC 123"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PostalCode(tt.in))
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"hvac", "plumbing", "electric"}, SplitList("hvac, plumbing , electric", ","))
	assert.Equal(t, []string{"a", "b"}, SplitList("a; ;b", ";"))
	assert.Equal(t, []string{"one"}, SplitList("one", ","))
	assert.Equal(t, []string{"x", "y"}, SplitList("x,y", ""))
	assert.Empty(t, SplitList("", ","))
}
