// Package codelist validates coded values against the fixed vocabularies
// of the activity-report standard.
//
// Codes are opaque string tokens, never parsed as integers: leading zeros
// and cross-category overlaps make numeric comparison unsafe ("01110" is a
// different token from "1110" and must be rejected, not coerced). Each
// category owns an immutable membership set, except SectorCode which is a
// shape rule.
package codelist

// Category is an enumerated code-list domain.
type Category string

// Known code categories.
const (
	TransactionType     Category = "transaction_type"
	FlowType            Category = "flow_type"
	FinanceType         Category = "finance_type"
	AidType             Category = "aid_type"
	TiedStatus          Category = "tied_status"
	DisbursementChannel Category = "disbursement_channel"
	SectorCode          Category = "sector_code"
)

// Categories lists every known category, for iteration by callers
// rendering pickers or running bulk checks.
func Categories() []Category {
	return []Category{
		TransactionType,
		FlowType,
		FinanceType,
		AidType,
		TiedStatus,
		DisbursementChannel,
		SectorCode,
	}
}

// ParseCategory maps a category token to its Category.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case TransactionType, FlowType, FinanceType, AidType,
		TiedStatus, DisbursementChannel, SectorCode:
		return Category(s), true
	}
	return "", false
}

// Membership tables. The standard defines more members than listed here;
// these are the ones the surrounding system accepts for storage.
var (
	// "10" is reserved/unused by the standard and deliberately absent.
	transactionTypes = memberSet(
		"1", "2", "3", "4", "5", "6", "7", "8", "9", "11", "12", "13",
	)

	flowTypes = memberSet(
		"10", "13", "14", "15", "19", "20", "21", "22",
		"30", "35", "36", "37", "40", "50",
	)

	financeTypes = memberSet(
		"1", "110", "111", "210", "211", "310", "311",
		"410", "421", "422", "423", "424", "425",
		"431", "432", "433", "510", "520", "530",
		"610", "620", "630", "700", "810", "910", "1100",
	)

	// Aid type is a letter-plus-two-digits shape drawn from a fixed list,
	// not a general pattern: only these codes are valid.
	aidTypes = memberSet(
		"A01", "A02", "B01", "B02", "B03", "B04",
		"C01", "D01", "D02", "E01", "E02",
		"F01", "G01", "H01", "H02",
	)

	// "2" was withdrawn by the standard and must be rejected.
	tiedStatuses = memberSet("1", "3", "4", "5")

	disbursementChannels = memberSet(
		"1", "2", "3", "4", "5", "6", "7",
		"8", "9", "10", "11", "12", "13",
	)
)

func memberSet(codes ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// IsValid reports whether code belongs to the category's vocabulary.
// It is total: unknown categories and unknown codes simply return false.
func IsValid(cat Category, code string) bool {
	switch cat {
	case TransactionType:
		return member(transactionTypes, code)
	case FlowType:
		return member(flowTypes, code)
	case FinanceType:
		return member(financeTypes, code)
	case AidType:
		return member(aidTypes, code)
	case TiedStatus:
		return member(tiedStatuses, code)
	case DisbursementChannel:
		return member(disbursementChannels, code)
	case SectorCode:
		return validSectorCode(code)
	default:
		return false
	}
}

func member(set map[string]struct{}, code string) bool {
	_, ok := set[code]
	return ok
}

// validSectorCode checks the sector shape rule: exactly 5 ASCII digits with
// a leading 1-9. Codes starting with 0 are invalid even when 5 digits long.
func validSectorCode(code string) bool {
	if len(code) != 5 {
		return false
	}
	if code[0] < '1' || code[0] > '9' {
		return false
	}
	for i := 1; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
