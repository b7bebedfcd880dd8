// Package shared holds code used by several packages that belongs to none
// of them.
//
// testutil provides a buffered slog handler for log assertions and
// fixtures for raw and cleaned sales rows. It is imported only from tests.
package shared
