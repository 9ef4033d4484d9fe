package types

import "strings"

// PaymentTermCash is offered by every wholesaler and is the checkout default.
const PaymentTermCash = "A VISTA"

// PaymentTerms is the ordered set of payment-term labels a wholesaler offers.
type PaymentTerms []string

// Normalize trims, upper-cases and dedupes the offered terms, guaranteeing
// the cash term is always present (first when it had to be injected).
func (t PaymentTerms) Normalize() PaymentTerms {
	out := make(PaymentTerms, 0, len(t)+1)
	seen := map[string]struct{}{}
	for _, raw := range t {
		term := strings.ToUpper(strings.TrimSpace(raw))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	if _, ok := seen[PaymentTermCash]; !ok {
		out = append(PaymentTerms{PaymentTermCash}, out...)
	}
	return out
}

// Offers reports whether the normalized set contains the given term.
func (t PaymentTerms) Offers(term string) bool {
	needle := strings.ToUpper(strings.TrimSpace(term))
	for _, candidate := range t.Normalize() {
		if candidate == needle {
			return true
		}
	}
	return false
}

// Default resolves the term used when the retailer makes no explicit choice:
// cash when offered, otherwise the first offered term.
func (t PaymentTerms) Default() string {
	normalized := t.Normalize()
	for _, term := range normalized {
		if term == PaymentTermCash {
			return PaymentTermCash
		}
	}
	if len(normalized) > 0 {
		return normalized[0]
	}
	return PaymentTermCash
}
