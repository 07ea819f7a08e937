package store

import (
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/louisbranch/ga4-admin-mcp/internal/platform/errors"
)

const testSeed = `
accounts:
  - id: "100"
    displayName: Demo Account
    properties:
      - id: "777777"
        displayName: Shop
        streams:
          - id: "11"
            displayName: Web
            measurementId: G-TEST1234
            defaultUri: https://shop.example
          - id: "12"
            displayName: Android
        customDimensions:
          - parameterName: plan
            displayName: Plan
            scope: USER
        conversionEvents:
          - eventName: purchase
            custom: false
  - id: "200"
    properties:
      - id: "888888"
`

func loadTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	seed, err := ParseSeed([]byte(testSeed))
	if err != nil {
		t.Fatalf("parse seed: %v", err)
	}
	s := New()
	s.SetClock(func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) })
	if err := s.Load(seed); err != nil {
		t.Fatalf("load seed: %v", err)
	}
	return s
}

func codeOf(t *testing.T, err error) apperrors.Code {
	t.Helper()
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperrors.Error, got %v", err)
	}
	return appErr.Code
}

func TestAccountSummariesFromSeed(t *testing.T) {
	s := loadTestStore(t)
	summaries := s.AccountSummaries()
	if len(summaries) != 2 {
		t.Fatalf("accounts = %d, want 2", len(summaries))
	}
	first := summaries[0]
	if first.Name != "accountSummaries/100" || first.Account != "accounts/100" {
		t.Fatalf("summary = %+v", first)
	}
	if len(first.PropertySummaries) != 1 || first.PropertySummaries[0].Property != "properties/777777" {
		t.Fatalf("property summaries = %+v", first.PropertySummaries)
	}
	if first.PropertySummaries[0].Parent != "accounts/100" {
		t.Fatalf("parent = %q", first.PropertySummaries[0].Parent)
	}
}

func TestDataStreams(t *testing.T) {
	s := loadTestStore(t)
	streams, err := s.DataStreams("777777")
	if err != nil {
		t.Fatalf("data streams: %v", err)
	}
	if len(streams) != 2 {
		t.Fatalf("streams = %d, want 2", len(streams))
	}
	if streams[0].Name != "properties/777777/dataStreams/11" || streams[0].Type != "WEB_DATA_STREAM" {
		t.Fatalf("web stream = %+v", streams[0])
	}
	if streams[0].WebStreamData == nil || streams[0].WebStreamData.MeasurementID != "G-TEST1234" {
		t.Fatalf("web stream data = %+v", streams[0].WebStreamData)
	}
	if streams[1].WebStreamData != nil {
		t.Fatalf("app stream should have no web data: %+v", streams[1])
	}

	if _, err := s.DataStreams("404"); codeOf(t, err) != apperrors.CodeNotFound {
		t.Fatalf("unknown property code = %v", err)
	}
}

func TestCreateCustomDimension(t *testing.T) {
	s := loadTestStore(t)
	d, err := s.CreateCustomDimension("777777", CustomDimension{ParameterName: "method", DisplayName: "Method", Scope: "EVENT"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(d.Name, "properties/777777/customDimensions/") {
		t.Fatalf("name = %q", d.Name)
	}
	list, err := s.CustomDimensions("777777")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[1].ParameterName != "method" {
		t.Fatalf("list = %+v", list)
	}
}

func TestCreateCustomDimensionRejections(t *testing.T) {
	s := loadTestStore(t)
	tests := []struct {
		name string
		dim  CustomDimension
		want apperrors.Code
	}{
		{"leading digit", CustomDimension{ParameterName: "1_starts_with_number", DisplayName: "X", Scope: "EVENT"}, apperrors.CodeInvalidArgument},
		{"dash", CustomDimension{ParameterName: "has-dash", DisplayName: "X", Scope: "EVENT"}, apperrors.CodeInvalidArgument},
		{"space", CustomDimension{ParameterName: "has space", DisplayName: "X", Scope: "EVENT"}, apperrors.CodeInvalidArgument},
		{"too long", CustomDimension{ParameterName: "too_long_" + strings.Repeat("a", 50), DisplayName: "X", Scope: "EVENT"}, apperrors.CodeInvalidArgument},
		{"empty", CustomDimension{ParameterName: "", DisplayName: "X", Scope: "EVENT"}, apperrors.CodeInvalidArgument},
		{"lowercase scope", CustomDimension{ParameterName: "ok", DisplayName: "X", Scope: "event"}, apperrors.CodeInvalidArgument},
		{"no display name", CustomDimension{ParameterName: "ok", Scope: "EVENT"}, apperrors.CodeInvalidArgument},
		{"duplicate", CustomDimension{ParameterName: "plan", DisplayName: "Plan again", Scope: "USER"}, apperrors.CodeAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateCustomDimension("777777", tt.dim)
			if got := codeOf(t, err); got != tt.want {
				t.Fatalf("code = %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := s.CreateCustomDimension("404", CustomDimension{ParameterName: "ok", DisplayName: "X", Scope: "EVENT"}); codeOf(t, err) != apperrors.CodeNotFound {
		t.Fatalf("unknown property: %v", err)
	}
}

func TestCreateConversionEvent(t *testing.T) {
	s := loadTestStore(t)
	e, err := s.CreateConversionEvent("777777", "sign_up")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.CreateTime != "2024-05-01T12:00:00Z" {
		t.Fatalf("create time = %q", e.CreateTime)
	}
	if !e.Custom || !e.Deletable || e.CountingMethod != "ONCE_PER_EVENT" {
		t.Fatalf("event = %+v", e)
	}

	if _, err := s.CreateConversionEvent("777777", "sign_up"); codeOf(t, err) != apperrors.CodeAlreadyExists {
		t.Fatalf("duplicate: %v", err)
	}
	if _, err := s.CreateConversionEvent("777777", ""); codeOf(t, err) != apperrors.CodeInvalidArgument {
		t.Fatalf("empty name: %v", err)
	}

	events, err := s.ConversionEvents("777777")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 || events[0].EventName != "purchase" || events[0].Custom {
		t.Fatalf("events = %+v", events)
	}
}

func TestLoadRejectsInvalidSeed(t *testing.T) {
	tests := map[string]Seed{
		"account without id":  {Accounts: []SeedAccount{{}}},
		"property without id": {Accounts: []SeedAccount{{ID: "1", Properties: []SeedProperty{{}}}}},
		"duplicate property": {Accounts: []SeedAccount{
			{ID: "1", Properties: []SeedProperty{{ID: "5"}}},
			{ID: "2", Properties: []SeedProperty{{ID: "5"}}},
		}},
		"bad dimension": {Accounts: []SeedAccount{{ID: "1", Properties: []SeedProperty{{
			ID:               "5",
			CustomDimensions: []SeedDimension{{ParameterName: "bad-name", DisplayName: "X", Scope: "EVENT"}},
		}}}}},
	}
	for name, seed := range tests {
		if err := New().Load(seed); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := loadTestStore(t)
	if _, err := s.CreateConversionEvent("888888", "lead"); err != nil {
		t.Fatalf("create: %v", err)
	}

	restored := New()
	if err := restored.Load(s.Snapshot()); err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	streams, err := restored.DataStreams("777777")
	if err != nil || len(streams) != 2 || streams[0].Name != "properties/777777/dataStreams/11" {
		t.Fatalf("streams = %+v, %v", streams, err)
	}
	events, err := restored.ConversionEvents("888888")
	if err != nil || len(events) != 1 || events[0].EventName != "lead" {
		t.Fatalf("events = %+v, %v", events, err)
	}
}

func TestReset(t *testing.T) {
	s := loadTestStore(t)
	s.Reset()
	if got := s.AccountSummaries(); len(got) != 0 {
		t.Fatalf("accounts after reset = %d", len(got))
	}
	if _, err := s.DataStreams("777777"); err == nil {
		t.Fatal("expected property to be gone after reset")
	}
}

func TestLoadSeedFileMissing(t *testing.T) {
	if _, err := LoadSeedFile(t.TempDir() + "/missing.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
