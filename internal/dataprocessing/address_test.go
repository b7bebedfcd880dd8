package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coderguy16/sales-report-automation/pkg/contracts/domain"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    domain.AddressParts
	}{
		{
			name:    "standard",
			address: "123 Main St, Springfield, IL 62704",
			want:    domain.AddressParts{Kind: domain.AddressStandard, Street: "123 Main St", City: "Springfield", State: "IL"},
		},
		{
			name:    "standard with suite and multi word city",
			address: "4521 Oak Ave. Suite 200, Port Jennifer, NY 10001",
			want:    domain.AddressParts{Kind: domain.AddressStandard, Street: "4521 Oak Ave. Suite 200", City: "Port Jennifer", State: "NY"},
		},
		{
			name:    "military post office box",
			address: "PSC 1234, Box 56, APO AE 09001",
			want:    domain.AddressParts{Kind: domain.AddressMilitary, Street: "PSC 1234, Box 56", City: "APO", State: "AE"},
		},
		{
			name:    "military unit",
			address: "Unit 9012, Box 3456, DPO AP 96520",
			want:    domain.AddressParts{Kind: domain.AddressMilitary, Street: "Unit 9012, Box 3456", City: "DPO", State: "AP"},
		},
		{
			name:    "military without box",
			address: "PSC 7788 FPO AA 34001",
			want:    domain.AddressParts{Kind: domain.AddressMilitary, Street: "PSC 7788", City: "FPO", State: "AA"},
		},
		{
			name:    "ship address matches neither",
			address: "USNS Miller, FPO AE 09876",
			want:    domain.AddressParts{Kind: domain.AddressUnrecognized},
		},
		{
			name:    "no zip code",
			address: "123 Main St, Springfield, IL",
			want:    domain.AddressParts{Kind: domain.AddressUnrecognized},
		},
		{
			name:    "empty",
			address: "",
			want:    domain.AddressParts{Kind: domain.AddressUnrecognized},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAddress(tt.address)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Kind != domain.AddressUnrecognized, got.Recognized())
		})
	}
}

func TestZipCode(t *testing.T) {
	tests := map[string]string{
		"123 Main St, Springfield, IL 62704": "62704",
		"PSC 1234, Box 56, APO AE 09001":     "09001",
		"somewhere without zip":              "zip",
		"  trailing spaces 12345   ":         "12345",
		"":                                   "",
		"   ":                                "",
	}
	for address, want := range tests {
		assert.Equal(t, want, ZipCode(address), address)
	}
}
