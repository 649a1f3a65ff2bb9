package database

import (
	"fmt"
	"strings"

	"BooksApp/app/logger"
	"BooksApp/app/models"

	"gorm.io/gorm"
)

// vendorColumns is the current vendors column set, used when copying rows
// out of a legacy table during the primary-key rebuild.
var vendorColumns = []string{
	"name", "vendor_code", "address", "city", "pib", "registration_number",
	"bank_account", "contact_person", "phone", "email", "notes", "created_at",
}

// legacyColumns lists, per table, columns that old data files may be
// missing. AutoMigrate covers the normal case; this pass mirrors the
// historical repair behavior so that heterogeneous stores converge on the
// same column set no matter which version wrote them.
var legacyColumns = map[string][]string{
	"vendors": {
		"vendor_code TEXT", "address TEXT", "city TEXT", "pib TEXT",
		"registration_number TEXT", "bank_account TEXT", "contact_person TEXT",
		"phone TEXT", "email TEXT", "notes TEXT",
		"created_at TEXT DEFAULT CURRENT_TIMESTAMP",
	},
	"invoices": {
		"vendor_id INTEGER", "vendor_name TEXT", "delivery_note_number TEXT",
		"is_paid INTEGER DEFAULT 0", "payment_date TEXT", "notes TEXT",
		"is_archived INTEGER DEFAULT 0",
		"created_at TEXT DEFAULT CURRENT_TIMESTAMP",
	},
	"proforma_invoices": {
		"customer_id INTEGER", "customer_name TEXT",
		"paid_amount NUMERIC DEFAULT 0", "payment_status TEXT DEFAULT 'Unpaid'",
		"notes TEXT", "is_archived INTEGER DEFAULT 0",
	},
	"utility_bills": {
		"entry_date TEXT", "utility_type_id INTEGER", "utility_type_name TEXT",
		"paid_amount NUMERIC DEFAULT 0", "payment_status TEXT DEFAULT 'Unpaid'",
		"payment_date TEXT", "is_archived INTEGER DEFAULT 0", "notes TEXT",
	},
	"revenue_entries": {
		"date_to TEXT", "cash NUMERIC DEFAULT 0", "card NUMERIC DEFAULT 0",
		"wire NUMERIC DEFAULT 0", "checks NUMERIC DEFAULT 0",
		"payment_status TEXT DEFAULT 'Unpaid'", "payment_date TEXT", "notes TEXT",
	},
}

// RunMigrations brings a store to the current schema. It is idempotent:
// running it twice in a row produces no further changes and no errors.
func RunMigrations(gdb *gorm.DB) error {
	if err := rebuildLegacyVendors(gdb); err != nil {
		return fmt.Errorf("legacy vendors migration failed: %w", err)
	}

	err := gdb.AutoMigrate(
		&models.Vendor{},
		&models.Customer{},
		&models.Article{},
		&models.UtilityType{},
		&models.Invoice{},
		&models.Payment{},
		&models.ProformaInvoice{},
		&models.ProformaItem{},
		&models.ProformaPayment{},
		&models.UtilityBill{},
		&models.RevenueEntry{},
		&models.Setting{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	ensureLegacyColumns(gdb)
	createIndexes(gdb)

	return nil
}

// ensureLegacyColumns adds any column a legacy store is missing. Failures
// are expected when the column already exists and are deliberately ignored;
// the pass must be safe to run against every historical schema version.
func ensureLegacyColumns(gdb *gorm.DB) {
	log := logger.WithComponent("schema")

	for table, defs := range legacyColumns {
		existing, err := tableColumns(gdb, table)
		if err != nil {
			log.Warn().Err(err).Str("table", table).Msg("could not inspect table columns")
			continue
		}

		for _, def := range defs {
			name := strings.Fields(def)[0]
			if existing[name] {
				continue
			}
			if err := gdb.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", table, def)).Error; err != nil {
				log.Debug().Err(err).Str("table", table).Str("column", name).
					Msg("skipping column add")
				continue
			}
			log.Info().Str("table", table).Str("column", name).Msg("added missing column")
		}
	}
}

// rebuildLegacyVendors handles the oldest store layout, where the vendors
// table was created without a primary key column. The table is renamed,
// recreated with the current definition, matching columns are copied over
// and the old table dropped, all in one transaction.
func rebuildLegacyVendors(gdb *gorm.DB) error {
	if !gdb.Migrator().HasTable("vendors") {
		return nil
	}

	existing, err := tableColumns(gdb, "vendors")
	if err != nil {
		return err
	}
	if existing["id"] {
		return nil
	}

	log := logger.WithComponent("schema")
	log.Warn().Msg("vendors table has no primary key, rebuilding")

	return gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("ALTER TABLE vendors RENAME TO vendors_legacy").Error; err != nil {
			return err
		}
		if err := tx.Migrator().CreateTable(&models.Vendor{}); err != nil {
			return err
		}

		var shared []string
		for _, col := range vendorColumns {
			if existing[col] {
				shared = append(shared, col)
			}
		}
		if len(shared) > 0 {
			cols := strings.Join(shared, ", ")
			insert := fmt.Sprintf("INSERT INTO vendors (%s) SELECT %s FROM vendors_legacy", cols, cols)
			if err := tx.Exec(insert).Error; err != nil {
				return err
			}
		}

		return tx.Migrator().DropTable("vendors_legacy")
	})
}

// tableColumns returns the column names of a table as a set.
func tableColumns(gdb *gorm.DB, table string) (map[string]bool, error) {
	var names []string
	if err := gdb.Raw("SELECT name FROM pragma_table_info(?)", table).Scan(&names).Error; err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set, nil
}

// createIndexes creates indexes for the hot query paths.
func createIndexes(gdb *gorm.DB) {
	gdb.Exec("CREATE INDEX IF NOT EXISTS idx_invoices_vendor_name ON invoices(vendor_name)")
	gdb.Exec("CREATE INDEX IF NOT EXISTS idx_invoices_is_archived ON invoices(is_archived)")
	gdb.Exec("CREATE INDEX IF NOT EXISTS idx_payments_invoice_id ON payments(invoice_id)")
	gdb.Exec("CREATE INDEX IF NOT EXISTS idx_proforma_items_proforma_id ON proforma_items(proforma_id)")
	gdb.Exec("CREATE INDEX IF NOT EXISTS idx_proforma_payments_proforma_id ON proforma_payments(proforma_id)")
	gdb.Exec("CREATE INDEX IF NOT EXISTS idx_utility_bills_is_archived ON utility_bills(is_archived)")
	gdb.Exec("CREATE INDEX IF NOT EXISTS idx_revenue_entries_date_from ON revenue_entries(date_from)")
}
