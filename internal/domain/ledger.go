package domain

import "slices"

// HandRecord is the settled outcome of one hand.
type HandRecord struct {
	Ordinal    int
	Dealer     int
	Contract   Contract
	Raw        [NumSeats]int
	Final      [NumSeats]int
	Doublers   []int
	Redoublers []int
	Special    SpecialDoubles
	// Bids are the advisory trumps bids; nil for other contracts.
	Bids []int
}

// Ledger is the ordered list of settled hands. Only the tail can be removed.
type Ledger struct {
	records []HandRecord
}

// NewLedger restores a ledger from previously settled records.
func NewLedger(records ...HandRecord) Ledger {
	return Ledger{records: slices.Clone(records)}
}

func (l *Ledger) Commit(rec HandRecord) {
	l.records = append(l.records, rec)
}

// UndoLast removes and returns the most recent record.
func (l *Ledger) UndoLast() (HandRecord, error) {
	if len(l.records) == 0 {
		return HandRecord{}, ErrNothingToUndo
	}
	last := l.records[len(l.records)-1]
	l.records = l.records[:len(l.records)-1]
	return last, nil
}

func (l *Ledger) Last() (HandRecord, bool) {
	if len(l.records) == 0 {
		return HandRecord{}, false
	}
	return l.records[len(l.records)-1], true
}

func (l *Ledger) Len() int {
	return len(l.records)
}

// Records returns a copy of the settled hands in play order.
func (l *Ledger) Records() []HandRecord {
	return slices.Clone(l.records)
}
