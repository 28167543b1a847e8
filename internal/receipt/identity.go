package receipt

import (
	"crypto/sha1"
	"encoding/hex"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Fingerprint returns the canonical string a receipt's ID is derived from:
// retailer, date, time, items digest and total joined with ".".
// Items are sorted by description first so their order does not matter.
func Fingerprint(r *Receipt) string {
	items := slices.Clone(r.Items)
	slices.SortStableFunc(items, func(a, b LineItem) int {
		return strings.Compare(a.Description, b.Description)
	})

	var digests strings.Builder
	for _, item := range items {
		digests.WriteString(sha1Hex(item.Description + ":" + item.Price.String()))
	}

	return strings.Join([]string{
		r.Retailer,
		r.PurchaseDate.String(),
		r.PurchaseTime.String(),
		sha1Hex(digests.String()),
		r.Total.String(),
	}, ".")
}

// DeriveID returns the version 5 UUID of the receipt's fingerprint in the
// DNS namespace. Identical content always yields the same ID.
func DeriveID(r *Receipt) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(Fingerprint(r))).String()
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
