package admin

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResolveCanonicalPathUnchanged(t *testing.T) {
	for _, ref := range []string{"properties/999999", "properties/1", "properties/abc"} {
		api := &fakeAPI{}
		got, err := NewResolver(api, nil).Resolve(context.Background(), ref)
		if err != nil {
			t.Fatalf("resolve %q: %v", ref, err)
		}
		if got != ref {
			t.Fatalf("resolve %q = %q, want unchanged", ref, got)
		}
		if n := api.remoteCalls(); n != 0 {
			t.Fatalf("resolve %q made %d remote calls, want 0", ref, n)
		}
	}
}

func TestResolveBareIDSynthesizesPath(t *testing.T) {
	tests := map[string]string{
		"123456":   "properties/123456",
		"0":        "properties/0",
		"not-a-id": "properties/not-a-id",
	}
	for ref, want := range tests {
		api := &fakeAPI{}
		got, err := NewResolver(api, nil).Resolve(context.Background(), ref)
		if err != nil {
			t.Fatalf("resolve %q: %v", ref, err)
		}
		if got != want {
			t.Fatalf("resolve %q = %q, want %q", ref, got, want)
		}
		if n := api.remoteCalls(); n != 0 {
			t.Fatalf("resolve %q made %d remote calls, want 0", ref, n)
		}
	}
}

func TestResolveMeasurementIDSingleStream(t *testing.T) {
	api := &fakeAPI{
		accounts: []AccountSummary{{
			Name:              "accountSummaries/1",
			PropertySummaries: []PropertySummary{{Property: "properties/777777"}},
		}},
		streams: map[string][]DataStream{
			"properties/777777": {webStream("properties/777777/dataStreams/1", "G-TEST1234")},
		},
	}

	got, err := NewResolver(api, nil).Resolve(context.Background(), "G-TEST1234")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "properties/777777" {
		t.Fatalf("resolve = %q, want properties/777777", got)
	}
	if api.accountCalls != 1 {
		t.Fatalf("account summary calls = %d, want 1", api.accountCalls)
	}
	if len(api.streamCalls) != 1 || api.streamCalls[0] != "properties/777777" {
		t.Fatalf("stream calls = %v, want [properties/777777]", api.streamCalls)
	}
}

func TestResolveMeasurementIDStopsAtFirstMatch(t *testing.T) {
	api := &fakeAPI{
		accounts: []AccountSummary{
			{PropertySummaries: []PropertySummary{{Property: "properties/1"}, {Property: "properties/2"}}},
			{PropertySummaries: []PropertySummary{{Property: "properties/3"}, {Property: "properties/4"}}},
		},
		streams: map[string][]DataStream{
			"properties/1": {webStream("s1", "G-OTHER")},
			"properties/2": {{Name: "app"}},
			"properties/3": {webStream("s3a", "G-NOPE"), webStream("s3b", "G-TARGET")},
			"properties/4": {webStream("s4", "G-TARGET")},
		},
	}

	got, err := NewResolver(api, nil).Resolve(context.Background(), "G-TARGET")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "properties/3" {
		t.Fatalf("resolve = %q, want properties/3", got)
	}
	want := []string{"properties/1", "properties/2", "properties/3"}
	if len(api.streamCalls) != len(want) {
		t.Fatalf("stream calls = %v, want %v", api.streamCalls, want)
	}
	for i := range want {
		if api.streamCalls[i] != want[i] {
			t.Fatalf("stream calls = %v, want %v", api.streamCalls, want)
		}
	}
	if api.accountCalls != 1 {
		t.Fatalf("account summary calls = %d, want 1", api.accountCalls)
	}
}

func TestResolveMeasurementIDSkipsEmptyPropertyNames(t *testing.T) {
	api := &fakeAPI{
		accounts: []AccountSummary{{
			PropertySummaries: []PropertySummary{{Property: ""}, {Property: "properties/5"}},
		}},
		streams: map[string][]DataStream{
			"properties/5": {webStream("s5", "G-FIVE")},
		},
	}

	got, err := NewResolver(api, nil).Resolve(context.Background(), "G-FIVE")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "properties/5" {
		t.Fatalf("resolve = %q, want properties/5", got)
	}
	if len(api.streamCalls) != 1 {
		t.Fatalf("stream calls = %v, want exactly one", api.streamCalls)
	}
}

func TestResolveMeasurementIDNotFound(t *testing.T) {
	api := &fakeAPI{
		accounts: []AccountSummary{
			{PropertySummaries: []PropertySummary{{Property: "properties/1"}}},
			{PropertySummaries: []PropertySummary{{Property: "properties/2"}, {Property: "properties/3"}}},
			{},
		},
		streams: map[string][]DataStream{
			"properties/1": {webStream("s1", "G-A")},
			"properties/3": {webStream("s3", "G-B"), {Name: "ios"}},
		},
	}

	_, err := NewResolver(api, nil).Resolve(context.Background(), "G-MISSING")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
	if notFound.Reference != "G-MISSING" {
		t.Fatalf("reference = %q, want G-MISSING", notFound.Reference)
	}
	if notFound.Error() != "No property found with measurement ID: G-MISSING" {
		t.Fatalf("message = %q", notFound.Error())
	}
	if len(api.streamCalls) != 3 {
		t.Fatalf("stream calls = %v, want every property visited", api.streamCalls)
	}
}

func TestResolveMeasurementIDNoAccounts(t *testing.T) {
	api := &fakeAPI{}
	_, err := NewResolver(api, nil).Resolve(context.Background(), "G-ANY")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
	if api.accountCalls != 1 || len(api.streamCalls) != 0 {
		t.Fatalf("calls = %d/%v, want 1 account call and no stream calls", api.accountCalls, api.streamCalls)
	}
}

func TestResolvePropagatesRemoteErrors(t *testing.T) {
	denied := &RemoteAPIError{StatusCode: 403, Status: "PERMISSION_DENIED", Message: "denied"}

	api := &fakeAPI{accountsErr: denied}
	if _, err := NewResolver(api, nil).Resolve(context.Background(), "G-X"); err != denied {
		t.Fatalf("account error = %v, want the remote error unchanged", err)
	}

	api = &fakeAPI{
		accounts:   []AccountSummary{{PropertySummaries: []PropertySummary{{Property: "properties/1"}, {Property: "properties/2"}}}},
		streamsErr: map[string]error{"properties/1": denied},
	}
	if _, err := NewResolver(api, nil).Resolve(context.Background(), "G-X"); err != denied {
		t.Fatalf("stream error = %v, want the remote error unchanged", err)
	}
	if len(api.streamCalls) != 1 {
		t.Fatalf("stream calls = %v, want lookup to stop at the failure", api.streamCalls)
	}
}

func TestResolveLimiterHonoursCancellation(t *testing.T) {
	api := &fakeAPI{
		accounts: []AccountSummary{{PropertySummaries: []PropertySummary{{Property: "properties/1"}, {Property: "properties/2"}}}},
	}
	// One token, refilled once per hour: the second lookup must wait.
	limiter := NewLookupLimiter(1.0/3600, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewResolver(api, limiter).Resolve(ctx, "G-X")
	if err == nil {
		t.Fatal("expected limiter wait to fail")
	}
	if len(api.streamCalls) != 1 {
		t.Fatalf("stream calls = %v, want exactly one before pacing blocked", api.streamCalls)
	}
}

func TestNewLookupLimiter(t *testing.T) {
	if NewLookupLimiter(0, 5) != nil {
		t.Fatal("expected nil limiter for zero rps")
	}
	if NewLookupLimiter(-1, 5) != nil {
		t.Fatal("expected nil limiter for negative rps")
	}
	l := NewLookupLimiter(10, 0)
	if l == nil {
		t.Fatal("expected limiter")
	}
	if l.Burst() != 1 {
		t.Fatalf("burst = %d, want 1", l.Burst())
	}
}
