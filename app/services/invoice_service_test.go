package services

import (
	"errors"
	"testing"
	"time"

	"BooksApp/app/models"
)

func addTestInvoice(t *testing.T, s *InvoiceService, amount string) uint {
	t.Helper()
	id, err := s.AddInvoice(InvoiceInput{
		InvoiceDate: "01.03.2026",
		DueDate:     "15.03.2026",
		VendorName:  "Elektrodistribucija",
		Amount:      dec(amount),
	})
	if err != nil {
		t.Fatalf("add invoice: %v", err)
	}
	return id
}

func TestInvoicePartialPaymentFlow(t *testing.T) {
	s := newTestInvoiceService(t)
	id := addTestInvoice(t, s, "10000")

	status, err := s.GetPaymentStatus(id)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status != models.StatusUnpaid {
		t.Fatalf("fresh invoice: got %s, want %s", status, models.StatusUnpaid)
	}

	if _, err := s.AddPayment(id, PaymentInput{Amount: dec("4000"), Date: "05.03.2026"}); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	status, _ = s.GetPaymentStatus(id)
	if status != models.StatusPartial {
		t.Errorf("after 4000: got %s, want %s", status, models.StatusPartial)
	}
	remaining, _ := s.GetRemaining(id)
	assertDecimal(t, remaining, "6000")

	secondID, err := s.AddPayment(id, PaymentInput{Amount: dec("6000"), Date: "10.03.2026"})
	if err != nil {
		t.Fatalf("second payment: %v", err)
	}
	status, _ = s.GetPaymentStatus(id)
	if status != models.StatusPaid {
		t.Errorf("after settling: got %s, want %s", status, models.StatusPaid)
	}
	inv, _ := s.GetInvoice(id)
	if !inv.IsPaid {
		t.Error("is_paid cache not set after settling")
	}
	if inv.PaymentDate == nil || *inv.PaymentDate != "10.03.2026" {
		t.Errorf("payment_date cache: got %v, want 10.03.2026", inv.PaymentDate)
	}

	// Deleting a payment must roll the cache back in the same operation.
	if err := s.DeletePayment(secondID); err != nil {
		t.Fatalf("delete payment: %v", err)
	}
	inv, _ = s.GetInvoice(id)
	if inv.IsPaid {
		t.Error("is_paid cache stale after payment deletion")
	}
	if inv.PaymentDate != nil {
		t.Errorf("payment_date should clear, got %v", *inv.PaymentDate)
	}
	assertDecimal(t, inv.Remaining, "6000")
	if inv.PaymentStatus != models.StatusPartial {
		t.Errorf("got %s, want %s", inv.PaymentStatus, models.StatusPartial)
	}
}

func TestInvoiceOverpaymentCapsAtPaid(t *testing.T) {
	s := newTestInvoiceService(t)
	id := addTestInvoice(t, s, "1000")

	if _, err := s.AddPayment(id, PaymentInput{Amount: dec("1500"), Date: "05.03.2026"}); err != nil {
		t.Fatalf("overpayment: %v", err)
	}
	status, _ := s.GetPaymentStatus(id)
	if status != models.StatusPaid {
		t.Errorf("got %s, want %s", status, models.StatusPaid)
	}
	remaining, _ := s.GetRemaining(id)
	assertDecimal(t, remaining, "-500")
}

func TestInvoiceValidation(t *testing.T) {
	s := newTestInvoiceService(t)

	cases := []struct {
		name string
		in   InvoiceInput
	}{
		{"zero amount", InvoiceInput{InvoiceDate: "01.03.2026", DueDate: "15.03.2026", VendorName: "X", Amount: dec("0")}},
		{"bad date", InvoiceInput{InvoiceDate: "2026-03-01", DueDate: "15.03.2026", VendorName: "X", Amount: dec("10")}},
		{"missing due date", InvoiceInput{InvoiceDate: "01.03.2026", VendorName: "X", Amount: dec("10")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.AddInvoice(tc.in); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}

	if _, err := s.AddPayment(1, PaymentInput{Amount: dec("-5")}); !errors.Is(err, ErrValidation) {
		t.Errorf("negative payment: got %v, want ErrValidation", err)
	}
}

func TestInvoiceVendorNameWins(t *testing.T) {
	s := newTestInvoiceService(t)

	vendor := models.Vendor{Name: "Stored Name", VendorCode: "0001"}
	if err := s.db.Create(&vendor).Error; err != nil {
		t.Fatalf("seed vendor: %v", err)
	}

	id, err := s.AddInvoice(InvoiceInput{
		InvoiceDate: "01.03.2026",
		DueDate:     "15.03.2026",
		VendorID:    &vendor.ID,
		VendorName:  "Explicit Name",
		Amount:      dec("100"),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	inv, _ := s.GetInvoice(id)
	if inv.VendorName != "Explicit Name" {
		t.Errorf("got %q, the supplied name must win", inv.VendorName)
	}

	// Only the id supplied: the name is resolved from the vendor row.
	id, err = s.AddInvoice(InvoiceInput{
		InvoiceDate: "01.03.2026",
		DueDate:     "16.03.2026",
		VendorID:    &vendor.ID,
		Amount:      dec("100"),
	})
	if err != nil {
		t.Fatalf("add by id: %v", err)
	}
	inv, _ = s.GetInvoice(id)
	if inv.VendorName != "Stored Name" {
		t.Errorf("got %q, want the resolved vendor name", inv.VendorName)
	}
}

func TestMarkAsPaidInsertsBalancingPayment(t *testing.T) {
	s := newTestInvoiceService(t)
	id := addTestInvoice(t, s, "10000")

	if _, err := s.AddPayment(id, PaymentInput{Amount: dec("3000"), Date: "02.03.2026"}); err != nil {
		t.Fatalf("payment: %v", err)
	}
	if err := s.MarkAsPaid(id, "12.03.2026"); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	payments, err := s.GetPayments(id)
	if err != nil {
		t.Fatalf("payments: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("got %d payments, want 2", len(payments))
	}
	assertDecimal(t, payments[1].PaymentAmount, "7000")
	if payments[1].PaymentDate != "12.03.2026" {
		t.Errorf("balancing payment date: got %q", payments[1].PaymentDate)
	}

	// Marking an already settled invoice must not add another payment.
	if err := s.MarkAsPaid(id, "13.03.2026"); err != nil {
		t.Fatalf("second mark paid: %v", err)
	}
	payments, _ = s.GetPayments(id)
	if len(payments) != 2 {
		t.Errorf("got %d payments after repeat, want 2", len(payments))
	}
}

func TestMarkUnpaidClearsLog(t *testing.T) {
	s := newTestInvoiceService(t)
	id := addTestInvoice(t, s, "500")

	s.AddPayment(id, PaymentInput{Amount: dec("500"), Date: "02.03.2026"})
	if err := s.MarkUnpaid(id); err != nil {
		t.Fatalf("mark unpaid: %v", err)
	}

	payments, _ := s.GetPayments(id)
	if len(payments) != 0 {
		t.Errorf("got %d payments, want 0", len(payments))
	}
	inv, _ := s.GetInvoice(id)
	if inv.IsPaid || inv.PaymentDate != nil {
		t.Error("cache not reset")
	}
}

func TestDeleteInvoiceCascadesPayments(t *testing.T) {
	s := newTestInvoiceService(t)
	id := addTestInvoice(t, s, "800")
	s.AddPayment(id, PaymentInput{Amount: dec("100"), Date: "02.03.2026"})
	s.AddPayment(id, PaymentInput{Amount: dec("200"), Date: "03.03.2026"})

	if err := s.DeleteInvoice(id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	s.db.Model(&models.Payment{}).Where("invoice_id = ?", id).Count(&count)
	if count != 0 {
		t.Errorf("%d orphaned payments left", count)
	}

	if err := s.DeleteInvoice(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestFilterInvoices(t *testing.T) {
	s := newTestInvoiceService(t)

	past := models.FormatDate(time.Now().AddDate(0, 0, -10))
	future := models.FormatDate(time.Now().AddDate(0, 0, 10))

	overdueID, _ := s.AddInvoice(InvoiceInput{
		InvoiceDate: past, DueDate: past, VendorName: "Late", Amount: dec("100"),
	})
	paidID, _ := s.AddInvoice(InvoiceInput{
		InvoiceDate: past, DueDate: future, VendorName: "Settled", Amount: dec("200"),
	})
	s.MarkAsPaid(paidID, "")
	s.AddInvoice(InvoiceInput{
		InvoiceDate: past, DueDate: future, VendorName: "Open", Amount: dec("300"),
	})

	paid, err := s.FilterInvoices("paid")
	if err != nil {
		t.Fatalf("paid filter: %v", err)
	}
	if len(paid) != 1 || paid[0].ID != paidID {
		t.Errorf("paid filter returned %d rows", len(paid))
	}

	unpaid, _ := s.FilterInvoices("unpaid")
	if len(unpaid) != 2 {
		t.Errorf("unpaid filter returned %d rows, want 2", len(unpaid))
	}

	overdue, _ := s.FilterInvoices("overdue")
	if len(overdue) != 1 || overdue[0].ID != overdueID {
		t.Errorf("overdue filter returned %d rows", len(overdue))
	}

	if _, err := s.FilterInvoices("bogus"); !errors.Is(err, ErrValidation) {
		t.Errorf("bogus filter: got %v, want ErrValidation", err)
	}
}

func TestOverdueCutoffIsLocalCalendarDay(t *testing.T) {
	s := newTestInvoiceService(t)

	yesterday := models.FormatDate(time.Now().AddDate(0, 0, -1))
	today := models.Today()

	lateID, _ := s.AddInvoice(InvoiceInput{
		InvoiceDate: yesterday, DueDate: yesterday, VendorName: "Late", Amount: dec("100"),
	})
	s.AddInvoice(InvoiceInput{
		InvoiceDate: yesterday, DueDate: today, VendorName: "Due today", Amount: dec("100"),
	})
	// A row with a corrupt due date is skipped, not an error.
	if err := s.db.Create(&models.Invoice{
		InvoiceDate: yesterday, DueDate: "garbage", VendorName: "Corrupt", Amount: dec("100"),
	}).Error; err != nil {
		t.Fatalf("seed corrupt row: %v", err)
	}

	overdue, err := s.FilterInvoices("overdue")
	if err != nil {
		t.Fatalf("overdue filter: %v", err)
	}
	if len(overdue) != 1 || overdue[0].ID != lateID {
		t.Errorf("got %d overdue rows, want only the one due yesterday", len(overdue))
	}
}

func TestGetDueWithin(t *testing.T) {
	s := newTestInvoiceService(t)

	soon := models.FormatDate(time.Now().AddDate(0, 0, 3))
	far := models.FormatDate(time.Now().AddDate(0, 0, 30))
	past := models.FormatDate(time.Now().AddDate(0, 0, -3))

	soonID, _ := s.AddInvoice(InvoiceInput{
		InvoiceDate: past, DueDate: soon, VendorName: "Soon", Amount: dec("100"),
	})
	s.AddInvoice(InvoiceInput{
		InvoiceDate: past, DueDate: far, VendorName: "Far", Amount: dec("100"),
	})
	s.AddInvoice(InvoiceInput{
		InvoiceDate: past, DueDate: past, VendorName: "Past", Amount: dec("100"),
	})

	due, err := s.GetDueWithin(7)
	if err != nil {
		t.Fatalf("due within: %v", err)
	}
	if len(due) != 1 || due[0].ID != soonID {
		t.Errorf("got %d due invoices, want only the one due soon", len(due))
	}
}

func TestGetStatistics(t *testing.T) {
	s := newTestInvoiceService(t)

	a := addTestInvoice(t, s, "100")
	addTestInvoice(t, s, "250")
	s.MarkAsPaid(a, "05.03.2026")

	archived := addTestInvoice(t, s, "999")
	s.ArchiveInvoice(archived)

	stats, err := s.GetStatistics()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalInvoices != 2 {
		t.Errorf("total: got %d, want 2 (archived excluded)", stats.TotalInvoices)
	}
	assertDecimal(t, stats.TotalAmount, "350")
	if stats.PaidInvoices != 1 {
		t.Errorf("paid: got %d, want 1", stats.PaidInvoices)
	}
	assertDecimal(t, stats.PaidAmount, "100")
	assertDecimal(t, stats.UnpaidAmount, "250")
}
