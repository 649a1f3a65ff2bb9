package services

import (
	"errors"
	"testing"

	"BooksApp/app/models"
)

func testRevenueInput(dateFrom string) RevenueInput {
	return RevenueInput{
		EntryDate: dateFrom,
		DateFrom:  dateFrom,
		Cash:      dec("12000"),
		Card:      dec("8000"),
		Amount:    dec("20000"),
	}
}

func TestAddRevenueEntryRejectsDuplicateDate(t *testing.T) {
	s := newTestRevenueService(t)

	if _, err := s.AddRevenueEntry(testRevenueInput("01.06.2026")); err != nil {
		t.Fatalf("first entry: %v", err)
	}
	if _, err := s.AddRevenueEntry(testRevenueInput("01.06.2026")); !errors.Is(err, ErrDateConflict) {
		t.Fatalf("duplicate date: got %v, want ErrDateConflict", err)
	}
	if _, err := s.AddRevenueEntry(testRevenueInput("02.06.2026")); err != nil {
		t.Fatalf("next day: %v", err)
	}
}

func TestUpdateRevenueEntryExcludesSelf(t *testing.T) {
	s := newTestRevenueService(t)

	id, _ := s.AddRevenueEntry(testRevenueInput("01.06.2026"))
	s.AddRevenueEntry(testRevenueInput("02.06.2026"))

	// Re-saving the entry on its own date is not a conflict.
	in := testRevenueInput("01.06.2026")
	in.Cash = dec("15000")
	if err := s.UpdateRevenueEntry(id, in); err != nil {
		t.Fatalf("same-date update: %v", err)
	}

	// Moving it onto the other entry's date is.
	if err := s.UpdateRevenueEntry(id, testRevenueInput("02.06.2026")); !errors.Is(err, ErrDateConflict) {
		t.Errorf("got %v, want ErrDateConflict", err)
	}
}

func TestRevenueValidation(t *testing.T) {
	s := newTestRevenueService(t)

	in := testRevenueInput("01.06.2026")
	in.DateTo = "31.05.2026"
	if _, err := s.AddRevenueEntry(in); !errors.Is(err, ErrValidation) {
		t.Errorf("inverted range: got %v, want ErrValidation", err)
	}

	in = testRevenueInput("01.06.2026")
	in.Cash = dec("-1")
	if _, err := s.AddRevenueEntry(in); !errors.Is(err, ErrValidation) {
		t.Errorf("negative channel: got %v, want ErrValidation", err)
	}

	// DateTo defaults to DateFrom.
	id, err := s.AddRevenueEntry(testRevenueInput("03.06.2026"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	entry, _ := s.GetRevenueEntry(id)
	if entry.DateTo != "03.06.2026" {
		t.Errorf("date_to: got %q, want the period start", entry.DateTo)
	}
	assertDecimal(t, entry.ChannelSum(), "20000")
}

func TestChannelMismatchAcceptedAsStored(t *testing.T) {
	s := newTestRevenueService(t)

	// The stored amount is the caller's figure; a mismatch with the
	// channel sum is logged but never rejected.
	in := testRevenueInput("01.06.2026")
	in.Amount = dec("19500")
	id, err := s.AddRevenueEntry(in)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	entry, _ := s.GetRevenueEntry(id)
	assertDecimal(t, entry.Amount, "19500")
	assertDecimal(t, entry.ChannelSum(), "20000")
}

func TestMarkRevenueAsPaidIsAtomic(t *testing.T) {
	s := newTestRevenueService(t)

	a, _ := s.AddRevenueEntry(testRevenueInput("01.06.2026"))
	b, _ := s.AddRevenueEntry(testRevenueInput("02.06.2026"))

	// One bad id rolls back the whole batch.
	if err := s.MarkAsPaid([]uint{a, 9999, b}, "10.06.2026"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	unsettled, _ := s.GetUnsettledEntries()
	if len(unsettled) != 2 {
		t.Fatalf("rollback failed: %d entries still unsettled, want 2", len(unsettled))
	}

	if err := s.MarkAsPaid([]uint{a, b}, "10.06.2026"); err != nil {
		t.Fatalf("settle: %v", err)
	}
	unsettled, _ = s.GetUnsettledEntries()
	if len(unsettled) != 0 {
		t.Errorf("%d entries still unsettled", len(unsettled))
	}

	entry, _ := s.GetRevenueEntry(a)
	if entry.PaymentStatus != models.StatusPaid {
		t.Errorf("got %s, want %s", entry.PaymentStatus, models.StatusPaid)
	}
	if entry.PaymentDate == nil || *entry.PaymentDate != "10.06.2026" {
		t.Errorf("payment date: got %v", entry.PaymentDate)
	}
}
