package domain

import "fmt"

// Contract identifies one of the seven Barbu contracts a dealer can choose.
type Contract int

const (
	NoTricks Contract = iota + 1
	NoHearts
	NoQueens
	NoKingOfHearts
	NoLastTwo
	Trumps
	Domino
)

// Polarity tells whether a contract hands out penalties or rewards.
type Polarity int

const (
	Negative Polarity = iota + 1
	Positive
)

func (p Polarity) String() string {
	switch p {
	case Negative:
		return "negative"
	case Positive:
		return "positive"
	default:
		return "unknown"
	}
}

// ContractInfo is the static catalog entry for a contract.
type ContractInfo struct {
	Contract Contract
	ID       string
	Name     string
	Polarity Polarity
	// PointCap bounds a single seat's raw score: the floor for negative
	// contracts, the ceiling for positive ones.
	PointCap int
	// PerUnit is the points per counted item (trick, heart, queen); zero for
	// contracts not scored by counting.
	PerUnit int
}

var catalog = [...]ContractInfo{
	{Contract: NoTricks, ID: "no-tricks", Name: "No Tricks", Polarity: Negative, PointCap: -26, PerUnit: -2},
	{Contract: NoHearts, ID: "no-hearts", Name: "No Hearts", Polarity: Negative, PointCap: -30, PerUnit: -2},
	{Contract: NoQueens, ID: "no-queens", Name: "No Queens", Polarity: Negative, PointCap: -24, PerUnit: -6},
	{Contract: NoKingOfHearts, ID: "no-king-hearts", Name: "No King of Hearts", Polarity: Negative, PointCap: -20},
	{Contract: NoLastTwo, ID: "no-last-two", Name: "No Last Two", Polarity: Negative, PointCap: -30},
	{Contract: Trumps, ID: "trumps", Name: "Trumps", Polarity: Positive, PointCap: 65, PerUnit: 5},
	{Contract: Domino, ID: "domino", Name: "Domino", Polarity: Positive, PointCap: 65},
}

// Contracts returns every contract in catalog order.
func Contracts() []Contract {
	out := make([]Contract, 0, len(catalog))
	for _, info := range catalog {
		out = append(out, info.Contract)
	}
	return out
}

// Valid reports whether c is one of the catalog contracts.
func (c Contract) Valid() bool {
	return c >= NoTricks && c <= Domino
}

// Info returns the catalog entry for c. It panics on an invalid contract;
// callers holding untrusted values should check Valid first.
func (c Contract) Info() ContractInfo {
	if !c.Valid() {
		panic(fmt.Sprintf("domain: invalid contract %d", int(c)))
	}
	return catalog[c-1]
}

func (c Contract) Polarity() Polarity {
	if !c.Valid() {
		return 0
	}
	return catalog[c-1].Polarity
}

func (c Contract) String() string {
	if !c.Valid() {
		return fmt.Sprintf("contract(%d)", int(c))
	}
	return catalog[c-1].ID
}

// ParseContract resolves a contract from its string id, e.g. "no-queens".
func ParseContract(id string) (Contract, error) {
	for _, info := range catalog {
		if info.ID == id {
			return info.Contract, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown contract %q", ErrInvalidInput, id)
}

func (c Contract) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: unknown contract %d", ErrInvalidInput, int(c))
	}
	return []byte(c.String()), nil
}

func (c *Contract) UnmarshalText(text []byte) error {
	parsed, err := ParseContract(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
