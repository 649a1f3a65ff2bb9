package services

import (
	"testing"

	"BooksApp/app/models"
)

func newTestSequenceService(t *testing.T) *SequenceService {
	return &SequenceService{NewBaseServiceWithDB(newTestDB(t))}
}

func vendorCodes(t *testing.T, s *SequenceService) []string {
	t.Helper()
	var codes []string
	if err := s.db.Table("vendors").Order("id").Pluck("vendor_code", &codes).Error; err != nil {
		t.Fatalf("pluck codes: %v", err)
	}
	return codes
}

func TestRepairEntityCodes(t *testing.T) {
	s := newTestSequenceService(t)

	for _, code := range []string{"12", "", "0007", "abc"} {
		v := models.Vendor{Name: "v-" + code, VendorCode: code}
		if err := s.db.Create(&v).Error; err != nil {
			t.Fatalf("seed vendor: %v", err)
		}
	}

	if err := s.RepairAllCodes(); err != nil {
		t.Fatalf("repair: %v", err)
	}

	got := vendorCodes(t, s)
	want := []string{"0012", "0008", "0007", "0009"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: got code %q, want %q", i+1, got[i], want[i])
		}
	}
}

func TestRepairEntityCodesIdempotent(t *testing.T) {
	s := newTestSequenceService(t)

	for _, code := range []string{"12", "", "0007", "abc"} {
		s.db.Create(&models.Vendor{Name: "v-" + code, VendorCode: code})
	}
	if err := s.RepairAllCodes(); err != nil {
		t.Fatalf("first repair: %v", err)
	}
	first := vendorCodes(t, s)

	if err := s.RepairAllCodes(); err != nil {
		t.Fatalf("second repair: %v", err)
	}
	second := vendorCodes(t, s)

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("row %d changed on second run: %q -> %q", i+1, first[i], second[i])
		}
	}
}

func TestNextEntityCode(t *testing.T) {
	s := newTestSequenceService(t)

	code, err := s.NextEntityCode(s.db, "vendors")
	if err != nil {
		t.Fatalf("next code on empty table: %v", err)
	}
	if code != "0001" {
		t.Errorf("empty table: got %q, want 0001", code)
	}

	s.db.Create(&models.Vendor{Name: "a", VendorCode: "0005"})
	s.db.Create(&models.Vendor{Name: "b", VendorCode: "broken"})

	code, err = s.NextEntityCode(s.db, "vendors")
	if err != nil {
		t.Fatalf("next code: %v", err)
	}
	if code != "0006" {
		t.Errorf("got %q, want 0006", code)
	}

	if _, err := s.NextEntityCode(s.db, "invoices"); err == nil {
		t.Error("expected error for table without a code column")
	}
}

func TestNextProformaNumber(t *testing.T) {
	s := newTestSequenceService(t)

	num, err := s.NextProformaNumber(s.db)
	if err != nil {
		t.Fatalf("next number on empty table: %v", err)
	}
	if num != "PR-00001" {
		t.Errorf("empty table: got %q, want PR-00001", num)
	}

	s.db.Create(&models.ProformaInvoice{ProformaNumber: "PR-00041", InvoiceDate: "01.01.2026"})
	s.db.Create(&models.ProformaInvoice{ProformaNumber: "garbage", InvoiceDate: "01.01.2026"})

	num, err = s.NextProformaNumber(s.db)
	if err != nil {
		t.Fatalf("next number: %v", err)
	}
	if num != "PR-00042" {
		t.Errorf("got %q, want PR-00042", num)
	}
}
