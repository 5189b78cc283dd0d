package domain

// Card holds the payment card on file for a user. "No card" is represented by
// the empty sentinel (all fields blank), not by an absent field; the remote
// record always carries a card object.
//
// CVC is collected at form time for verification but never persisted.
type Card struct {
	FirstName string `json:"firstName" bson:"first_name"`
	LastName  string `json:"lastName" bson:"last_name"`
	Number    string `json:"cardNumber" bson:"card_number"`
	Expiry    string `json:"expiry" bson:"expiry"`
	CVC       string `json:"-" bson:"-"`
}

// EmptyCard returns the sentinel that stands for "no card on file".
func EmptyCard() Card {
	return Card{}
}

// IsEmpty reports whether the card is the empty sentinel. CVC is ignored: a
// card is on file iff its persisted fields are set.
func (c Card) IsEmpty() bool {
	return c.FirstName == "" && c.LastName == "" && c.Number == "" && c.Expiry == ""
}

// LastFour returns the last four digits of the card number for display, or ""
// when no card is on file.
func (c Card) LastFour() string {
	if len(c.Number) < 4 {
		return ""
	}
	return c.Number[len(c.Number)-4:]
}
