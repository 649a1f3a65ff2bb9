package services

import (
	"fmt"
	"strconv"
	"strings"

	"BooksApp/app/logger"

	"gorm.io/gorm"
)

// entityCodeWidth is the zero-padded width of business codes
// (vendor, customer, article).
const entityCodeWidth = 4

// proformaNumberPrefix and width define the PR-NNNNN proforma numbers.
const (
	proformaNumberPrefix = "PR-"
	proformaNumberWidth  = 5
)

// SequenceService allocates the human-facing sequential business codes that
// exist alongside the numeric row ids, and repairs tables where old data
// left codes missing, unpadded or non-numeric.
type SequenceService struct {
	*BaseService
}

// NewSequenceService creates a new sequence service.
func NewSequenceService() *SequenceService {
	return &SequenceService{NewBaseService()}
}

// codeTables maps each coded entity table to its code column.
var codeTables = map[string]string{
	"vendors":   "vendor_code",
	"customers": "customer_code",
	"articles":  "article_code",
}

// NextEntityCode returns the next free code for a coded table: the highest
// purely numeric existing code plus one, zero-padded. Non-numeric and
// missing codes do not participate; the repair pass reassigns those.
func (s *SequenceService) NextEntityCode(tx *gorm.DB, table string) (string, error) {
	column, ok := codeTables[table]
	if !ok {
		return "", fmt.Errorf("table %q has no business code column", table)
	}

	max, err := maxNumericCode(tx, table, column)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", entityCodeWidth, max+1), nil
}

// RepairEntityCodes normalizes one table's codes in ascending id order:
// numeric codes are padded to the fixed width and kept, while blank or
// non-numeric codes receive the next free sequence number. Repeated runs
// converge to a stable, conflict-free set.
func (s *SequenceService) RepairEntityCodes(tx *gorm.DB, table string) error {
	column, ok := codeTables[table]
	if !ok {
		return fmt.Errorf("table %q has no business code column", table)
	}
	log := logger.WithComponent("sequence")

	type codeRow struct {
		ID   uint
		Code string
	}
	var rows []codeRow
	sel := fmt.Sprintf("id, COALESCE(%s, '') AS code", column)
	if err := tx.Table(table).Select(sel).Order("id").Scan(&rows).Error; err != nil {
		return err
	}

	// Fresh codes continue from the highest code already in canonical
	// zero-padded form; numeric codes that merely need padding keep their
	// value but do not advance the sequence. The used set guards against
	// a fresh assignment colliding with a padded code.
	next := 0
	used := make(map[int]bool)
	for _, r := range rows {
		if n, ok := numericCode(r.Code); ok {
			used[n] = true
			if r.Code == fmt.Sprintf("%0*d", entityCodeWidth, n) && n > next {
				next = n
			}
		}
	}

	for _, r := range rows {
		var code string
		if n, ok := numericCode(r.Code); ok {
			code = fmt.Sprintf("%0*d", entityCodeWidth, n)
		} else {
			next++
			for used[next] {
				next++
			}
			used[next] = true
			code = fmt.Sprintf("%0*d", entityCodeWidth, next)
		}
		if code == r.Code {
			continue
		}
		if err := tx.Table(table).Where("id = ?", r.ID).
			Update(column, code).Error; err != nil {
			return err
		}
		log.Info().Str("table", table).Uint("id", r.ID).
			Str("old", r.Code).Str("new", code).Msg("repaired business code")
	}

	return nil
}

// RepairAllCodes runs the startup code repair over every coded table.
func (s *SequenceService) RepairAllCodes() error {
	return s.WithTransaction(func(tx *gorm.DB) error {
		for table := range codeTables {
			if err := s.RepairEntityCodes(tx, table); err != nil {
				return fmt.Errorf("code repair for %s failed: %w", table, err)
			}
		}
		return nil
	})
}

// NextProformaNumber returns the next PR-NNNNN number, derived from the
// highest numeric suffix among existing proforma numbers. PR-00001 when
// the table is empty.
func (s *SequenceService) NextProformaNumber(tx *gorm.DB) (string, error) {
	var numbers []string
	if err := tx.Table("proforma_invoices").
		Pluck("proforma_number", &numbers).Error; err != nil {
		return "", err
	}

	max := 0
	for _, num := range numbers {
		suffix := strings.TrimPrefix(num, proformaNumberPrefix)
		if n, ok := numericCode(suffix); ok && n > max {
			max = n
		}
	}

	return fmt.Sprintf("%s%0*d", proformaNumberPrefix, proformaNumberWidth, max+1), nil
}

// maxNumericCode returns the highest purely numeric code in a column.
func maxNumericCode(tx *gorm.DB, table, column string) (int, error) {
	var codes []string
	if err := tx.Table(table).Pluck(column, &codes).Error; err != nil {
		return 0, err
	}
	max := 0
	for _, c := range codes {
		if n, ok := numericCode(c); ok && n > max {
			max = n
		}
	}
	return max, nil
}

// numericCode parses a purely numeric, non-empty code.
func numericCode(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
