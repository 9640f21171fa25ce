package enums

import "fmt"

// QuoteAuthor identifies which side of the negotiation produced a quote
// revision. Counter-offers alternate between the two.
type QuoteAuthor string

const (
	QuoteAuthorSupplier QuoteAuthor = "supplier"
	QuoteAuthorBuyer    QuoteAuthor = "buyer"
)

var validQuoteAuthors = []QuoteAuthor{
	QuoteAuthorSupplier,
	QuoteAuthorBuyer,
}

func (a QuoteAuthor) String() string {
	return string(a)
}

func (a QuoteAuthor) IsValid() bool {
	for _, candidate := range validQuoteAuthors {
		if candidate == a {
			return true
		}
	}
	return false
}

// Other returns the counterparty side.
func (a QuoteAuthor) Other() QuoteAuthor {
	if a == QuoteAuthorSupplier {
		return QuoteAuthorBuyer
	}
	return QuoteAuthorSupplier
}

func ParseQuoteAuthor(value string) (QuoteAuthor, error) {
	for _, candidate := range validQuoteAuthors {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quote author %q", value)
}
