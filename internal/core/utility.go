package core

import (
	"errors"
	"slices"
)

var ErrInvoiceNotFound = errors.New("utility invoice not found")

// AddInvoice inserts an invoice keeping the list sorted by due date, most
// recent first. Invoices without a valid due date go last.
func (u *UtilityAccount) AddInvoice(inv UtilityInvoice) {
	u.Invoices = append(u.Invoices, inv)
	u.SortInvoices()
}

// SortInvoices restores the most-recent-first order.
func (u *UtilityAccount) SortInvoices() {
	slices.SortStableFunc(u.Invoices, func(a, b UtilityInvoice) int {
		av, bv := a.DueDateUTC.Valid(), b.DueDateUTC.Valid()
		switch {
		case av && !bv:
			return -1
		case !av && bv:
			return 1
		case !av && !bv:
			return 0
		}
		return b.DueDateUTC.Compare(a.DueDateUTC.Time)
	})
}

// RemoveInvoice drops an invoice by id.
func (u *UtilityAccount) RemoveInvoice(invoiceID string) error {
	i := slices.IndexFunc(u.Invoices, func(inv UtilityInvoice) bool { return inv.ID == invoiceID })
	if i < 0 {
		return ErrInvoiceNotFound
	}
	u.Invoices = slices.Delete(u.Invoices, i, i+1)
	return nil
}
