// Package model contains domain records passed between layers.
package model

import "time"

// SectorLine is one sector allocation carried by a transaction.
type SectorLine struct {
	Code       string
	Name       string
	Percentage float64
}

// TransactionRecord is a stored financial transaction belonging to one
// activity. ValueUSD is a pointer because absent and zero are different
// states: nil means no converted value exists yet, while 0 is a real
// amount.
type TransactionRecord struct {
	ID          string
	Type        string
	ValueAmount float64
	Currency    string
	ValueUSD    *float64
	Date        time.Time
	SectorLines []SectorLine
}

// USDValue returns the USD value used for aggregation, falling back to the
// face amount when no converted value is present.
func (t TransactionRecord) USDValue() float64 {
	if t.ValueUSD != nil {
		return *t.ValueUSD
	}
	return t.ValueAmount
}

// ImportJob is one queued report-import request.
type ImportJob struct {
	JobID       string
	FileName    string
	Payload     string
	SubmittedAt time.Time
}

// ImportOutcome records how one import job ended, mirroring the import log
// the surrounding system keeps for bulk uploads.
type ImportOutcome struct {
	JobID          string
	FileName       string
	IATIIdentifier string
	OK             bool
	ErrorKind      string
	CompletedAt    time.Time
}
