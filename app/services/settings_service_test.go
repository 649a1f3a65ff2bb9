package services

import (
	"testing"
)

func TestSettingsCoercion(t *testing.T) {
	s := newTestSettingsService(t)

	err := s.SaveAll(map[string]any{
		"notifications_enabled": true,
		"notification_days":     14,
		"company_name":          "Pekara Centar",
		"backup_path":           "",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	settings, err := s.GetAll()
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if v, ok := settings["notifications_enabled"].(bool); !ok || !v {
		t.Errorf("notifications_enabled: got %#v, want true", settings["notifications_enabled"])
	}
	if v, ok := settings["notification_days"].(int); !ok || v != 14 {
		t.Errorf("notification_days: got %#v, want 14", settings["notification_days"])
	}
	if v, ok := settings["company_name"].(string); !ok || v != "Pekara Centar" {
		t.Errorf("company_name: got %#v", settings["company_name"])
	}
}

func TestSettingsBoolSpelling(t *testing.T) {
	s := newTestSettingsService(t)

	if err := s.Update("notifications_enabled", false); err != nil {
		t.Fatalf("update: %v", err)
	}

	// Bools are persisted with the capitalized spelling older data uses.
	var raw string
	if err := s.db.Table("settings").Where("key = ?", "notifications_enabled").
		Pluck("value", &raw).Error; err != nil {
		t.Fatalf("raw read: %v", err)
	}
	if raw != "False" {
		t.Errorf("stored %q, want \"False\"", raw)
	}
	if s.GetBool("notifications_enabled", true) {
		t.Error("GetBool read back true")
	}
}

func TestSettingsUpsert(t *testing.T) {
	s := newTestSettingsService(t)

	s.Update("notification_days", 7)
	s.Update("notification_days", 21)

	if got := s.GetInt("notification_days", 0); got != 21 {
		t.Errorf("got %d, want 21", got)
	}

	var count int64
	s.db.Table("settings").Where("key = ?", "notification_days").Count(&count)
	if count != 1 {
		t.Errorf("%d rows for one key", count)
	}
}

func TestTypedAccessorFallbacks(t *testing.T) {
	s := newTestSettingsService(t)

	if got := s.GetString("missing", "fallback"); got != "fallback" {
		t.Errorf("GetString: got %q", got)
	}
	if got := s.GetInt("missing", 42); got != 42 {
		t.Errorf("GetInt: got %d", got)
	}
	if !s.GetBool("missing", true) {
		t.Error("GetBool fallback lost")
	}

	s.Update("weird", "not-a-number")
	if got := s.GetInt("weird", 5); got != 5 {
		t.Errorf("non-numeric GetInt: got %d", got)
	}
	if s.GetBool("weird", false) {
		t.Error("non-bool GetBool: got true")
	}
}

func TestEnsureDefaultsPreservesExisting(t *testing.T) {
	s := newTestSettingsService(t)

	s.Update("notification_days", 30)
	if err := s.EnsureDefaults(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if got := s.GetInt("notification_days", 0); got != 30 {
		t.Errorf("existing value overwritten: got %d, want 30", got)
	}
	if got := s.GetInt("email_hour", -1); got != 9 {
		t.Errorf("default not seeded: got %d, want 9", got)
	}
	if !s.GetBool("notifications_enabled", false) {
		t.Error("notifications_enabled default not seeded")
	}
}

func TestLoadNotificationSettings(t *testing.T) {
	s := newTestSettingsService(t)

	ns, err := s.LoadNotificationSettings()
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if !ns.Enabled || ns.Days != 7 || ns.Hour != 9 || ns.Minute != 0 {
		t.Errorf("defaults: %+v", ns)
	}

	s.SaveAll(map[string]any{
		"notification_days":  3,
		"notification_email": "gazda@pekara.rs",
		"email_hour":         18,
	})
	ns, err = s.LoadNotificationSettings()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ns.Days != 3 || ns.Email != "gazda@pekara.rs" || ns.Hour != 18 {
		t.Errorf("loaded: %+v", ns)
	}

	s.Update("email_hour", 99)
	if _, err := s.LoadNotificationSettings(); err == nil {
		t.Error("out-of-range hour accepted")
	}
}
