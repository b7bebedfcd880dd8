package dataprocessing

import (
	"regexp"
	"strings"

	"github.com/coderguy16/sales-report-automation/pkg/contracts/domain"
)

var (
	// PSC 1234, Box 5678, APO AE 09001
	militaryAddressPattern = regexp.MustCompile(`(PSC \d+(?:, Box \d+)?|Unit \d+(?:, Box \d+)?),?\s*(APO|FPO|DPO)\s+([A-Z]{2})\s+\d{5}`)
	// 123 Main St, Springfield, IL 62701
	standardAddressPattern = regexp.MustCompile(`([\d\w\s\.]+),\s*([\w\s]+),\s*([A-Z]{2})\s+\d{5}`)
)

// ParseAddress splits a single-line address into street, city and state.
// The military pattern is tried first. For military addresses the office
// token (APO, FPO or DPO) is reported as the city and the region code as the
// state. Addresses matching neither pattern come back unrecognized with
// empty parts.
func ParseAddress(address string) domain.AddressParts {
	if m := militaryAddressPattern.FindStringSubmatch(address); m != nil {
		return domain.AddressParts{
			Kind:   domain.AddressMilitary,
			Street: m[1],
			City:   m[2],
			State:  m[3],
		}
	}

	if m := standardAddressPattern.FindStringSubmatch(address); m != nil {
		return domain.AddressParts{
			Kind:   domain.AddressStandard,
			Street: m[1],
			City:   m[2],
			State:  m[3],
		}
	}

	return domain.AddressParts{Kind: domain.AddressUnrecognized}
}

// ZipCode returns the last whitespace-separated token of address, or "" for
// an empty address. No check is made that the token looks like a zip code.
func ZipCode(address string) string {
	fields := strings.Fields(address)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
