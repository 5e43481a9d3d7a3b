// =============================================================================
// Excel to Tally XML - Voucher Builder
// =============================================================================
//
// This module turns validated rows into Tally journal vouchers.
//
// DOUBLE ENTRY:
//   Each row becomes one voucher with two ledger entries of equal magnitude:
//
//   | Leg    | Ledger   | ISDEEMEDPOSITIVE | Amount          |
//   |--------|----------|------------------|-----------------|
//   | Debit  | drledger | Yes              | amount negated  |
//   | Credit | crledger | No               | amount as is    |
//
//   Tally writes debits as negative amounts, so the two legs always sum to
//   zero, including for negative source amounts.
//
// =============================================================================

package converter

import (
	"github.com/ginjaninja78/excel-to-tally-xml/internal/types"
)

const (
	// VoucherAction is the ACTION attribute of every generated voucher.
	VoucherAction = "Create"

	// VoucherTypeJournal is the voucher type used for every row.
	VoucherTypeJournal = "Journal"
)

// NewVoucher maps one validated row to a journal voucher.
func NewVoucher(row types.ValidatedRow) types.Voucher {
	return types.Voucher{
		Action:        VoucherAction,
		VoucherType:   VoucherTypeJournal,
		Date:          row.Date,
		VoucherNumber: row.VoucherNumber,
		Narration:     row.Narration,
		Entries: []types.LedgerEntry{
			{
				LedgerName:       row.DrLedger,
				IsDeemedPositive: true,
				Amount:           row.Amount.Neg(),
			},
			{
				LedgerName:       row.CrLedger,
				IsDeemedPositive: false,
				Amount:           row.Amount,
			},
		},
	}
}

// NewVouchers maps rows to vouchers, keeping their order.
func NewVouchers(rows []types.ValidatedRow) []types.Voucher {
	vouchers := make([]types.Voucher, len(rows))
	for i, row := range rows {
		vouchers[i] = NewVoucher(row)
	}
	return vouchers
}
