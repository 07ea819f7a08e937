package store

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"

	apperrors "github.com/louisbranch/ga4-admin-mcp/internal/platform/errors"
	"go.einride.tech/aip/resourcename"
)

const (
	accountPattern         = "accounts/{account}"
	accountSummaryPattern  = "accountSummaries/{account_summary}"
	propertyPattern        = "properties/{property}"
	dataStreamPattern      = "properties/{property}/dataStreams/{data_stream}"
	customDimensionPattern = "properties/{property}/customDimensions/{custom_dimension}"
	conversionEventPattern = "properties/{property}/conversionEvents/{conversion_event}"

	maxDisplayNameLength = 82
	maxDescriptionLength = 150
)

var (
	parameterNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,39}$`)
	eventNamePattern     = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,39}$`)
)

type account struct {
	id          string
	displayName string
	properties  []string
}

type property struct {
	id          string
	displayName string
	account     string
	streams     []DataStream
	dimensions  []CustomDimension
	events      []ConversionEvent
}

// MemoryStore holds the twin's accounts, properties and admin resources.
type MemoryStore struct {
	mu         sync.RWMutex
	accounts   []*account
	properties map[string]*property
	nextID     int64
	now        func() time.Time
}

// New creates an empty store.
func New() *MemoryStore {
	return &MemoryStore{
		properties: make(map[string]*property),
		nextID:     1,
		now:        time.Now,
	}
}

// SetClock replaces the time source used for createTime fields.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Reset clears all state.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = nil
	s.properties = make(map[string]*property)
	s.nextID = 1
}

// Load replaces the store contents with seed. Seeded resources go through the
// same validation as API requests.
func (s *MemoryStore) Load(seed Seed) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = nil
	s.properties = make(map[string]*property)
	s.nextID = 1

	for _, sa := range seed.Accounts {
		if sa.ID == "" {
			return fmt.Errorf("seed account without id")
		}
		acct := &account{id: sa.ID, displayName: sa.DisplayName}
		for _, sp := range sa.Properties {
			if sp.ID == "" {
				return fmt.Errorf("seed property without id in account %s", sa.ID)
			}
			if _, dup := s.properties[sp.ID]; dup {
				return fmt.Errorf("duplicate seed property %s", sp.ID)
			}
			p := &property{id: sp.ID, displayName: sp.DisplayName, account: sa.ID}
			s.properties[sp.ID] = p
			acct.properties = append(acct.properties, sp.ID)

			for _, ss := range sp.Streams {
				id := ss.ID
				if id == "" {
					id = s.allocateID()
				}
				stream := DataStream{
					Name:        resourcename.Sprint(dataStreamPattern, sp.ID, id),
					Type:        "ANDROID_APP_DATA_STREAM",
					DisplayName: ss.DisplayName,
					CreateTime:  s.timestamp(),
				}
				if ss.MeasurementID != "" {
					stream.Type = streamTypeWeb
					stream.WebStreamData = &WebStreamData{MeasurementID: ss.MeasurementID, DefaultURI: ss.DefaultURI}
				}
				p.streams = append(p.streams, stream)
			}
			for _, sd := range sp.CustomDimensions {
				if _, err := s.createCustomDimension(p, CustomDimension{
					ParameterName: sd.ParameterName,
					DisplayName:   sd.DisplayName,
					Description:   sd.Description,
					Scope:         sd.Scope,
				}); err != nil {
					return fmt.Errorf("seed property %s: %w", sp.ID, err)
				}
			}
			for _, se := range sp.ConversionEvents {
				event, err := s.createConversionEvent(p, se.EventName)
				if err != nil {
					return fmt.Errorf("seed property %s: %w", sp.ID, err)
				}
				if se.Custom != nil && !*se.Custom {
					event.Custom = false
					event.Deletable = false
					p.events[len(p.events)-1] = event
				}
			}
		}
		s.accounts = append(s.accounts, acct)
	}
	return nil
}

// AccountSummaries lists every account with its property summaries.
func (s *MemoryStore) AccountSummaries() []AccountSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AccountSummary, 0, len(s.accounts))
	for _, a := range s.accounts {
		summary := AccountSummary{
			Name:        resourcename.Sprint(accountSummaryPattern, a.id),
			Account:     resourcename.Sprint(accountPattern, a.id),
			DisplayName: a.displayName,
		}
		for _, id := range a.properties {
			p := s.properties[id]
			summary.PropertySummaries = append(summary.PropertySummaries, PropertySummary{
				Property:     resourcename.Sprint(propertyPattern, p.id),
				DisplayName:  p.displayName,
				PropertyType: propertyTypeOrdinary,
				Parent:       summary.Account,
			})
		}
		out = append(out, summary)
	}
	return out
}

// DataStreams lists the data streams of a property.
func (s *MemoryStore) DataStreams(propertyID string) ([]DataStream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := s.property(propertyID)
	if err != nil {
		return nil, err
	}
	return append([]DataStream(nil), p.streams...), nil
}

// CustomDimensions lists the custom dimensions of a property in creation
// order.
func (s *MemoryStore) CustomDimensions(propertyID string) ([]CustomDimension, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := s.property(propertyID)
	if err != nil {
		return nil, err
	}
	return append([]CustomDimension(nil), p.dimensions...), nil
}

// ConversionEvents lists the conversion events of a property in creation
// order.
func (s *MemoryStore) ConversionEvents(propertyID string) ([]ConversionEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := s.property(propertyID)
	if err != nil {
		return nil, err
	}
	return append([]ConversionEvent(nil), p.events...), nil
}

// CreateCustomDimension validates and stores a custom dimension. An empty
// scope is rejected, as the API requires one.
func (s *MemoryStore) CreateCustomDimension(propertyID string, dimension CustomDimension) (CustomDimension, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.property(propertyID)
	if err != nil {
		return CustomDimension{}, err
	}
	return s.createCustomDimension(p, dimension)
}

// CreateConversionEvent marks eventName as a conversion for a property.
func (s *MemoryStore) CreateConversionEvent(propertyID, eventName string) (ConversionEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.property(propertyID)
	if err != nil {
		return ConversionEvent{}, err
	}
	return s.createConversionEvent(p, eventName)
}

// Snapshot exports the current state in seed form.
func (s *MemoryStore) Snapshot() Seed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var seed Seed
	for _, a := range s.accounts {
		sa := SeedAccount{ID: a.id, DisplayName: a.displayName}
		for _, id := range a.properties {
			p := s.properties[id]
			sp := SeedProperty{ID: p.id, DisplayName: p.displayName}
			for _, st := range p.streams {
				ss := SeedStream{DisplayName: st.DisplayName}
				var propID string
				_ = resourcename.Sscan(st.Name, dataStreamPattern, &propID, &ss.ID)
				if st.WebStreamData != nil {
					ss.MeasurementID = st.WebStreamData.MeasurementID
					ss.DefaultURI = st.WebStreamData.DefaultURI
				}
				sp.Streams = append(sp.Streams, ss)
			}
			for _, d := range p.dimensions {
				sp.CustomDimensions = append(sp.CustomDimensions, SeedDimension{
					ParameterName: d.ParameterName,
					DisplayName:   d.DisplayName,
					Description:   d.Description,
					Scope:         d.Scope,
				})
			}
			for _, e := range p.events {
				custom := e.Custom
				sp.ConversionEvents = append(sp.ConversionEvents, SeedEvent{EventName: e.EventName, Custom: &custom})
			}
			sa.Properties = append(sa.Properties, sp)
		}
		seed.Accounts = append(seed.Accounts, sa)
	}
	return seed
}

func (s *MemoryStore) property(id string) (*property, error) {
	p, ok := s.properties[id]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound,
			"Requested entity was not found.",
			map[string]string{"property": resourcename.Sprint(propertyPattern, id)})
	}
	return p, nil
}

func (s *MemoryStore) createCustomDimension(p *property, d CustomDimension) (CustomDimension, error) {
	if !parameterNamePattern.MatchString(d.ParameterName) {
		return CustomDimension{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			fmt.Sprintf("Invalid parameter name %q: must start with a letter and contain up to 40 letters, digits or underscores.", d.ParameterName),
			map[string]string{"field": "parameterName"})
	}
	if d.DisplayName == "" || len([]rune(d.DisplayName)) > maxDisplayNameLength {
		return CustomDimension{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			fmt.Sprintf("Display name must be between 1 and %d characters.", maxDisplayNameLength),
			map[string]string{"field": "displayName"})
	}
	if len([]rune(d.Description)) > maxDescriptionLength {
		return CustomDimension{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			fmt.Sprintf("Description must be at most %d characters.", maxDescriptionLength),
			map[string]string{"field": "description"})
	}
	switch d.Scope {
	case "EVENT", "USER", "ITEM":
	default:
		return CustomDimension{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			fmt.Sprintf("Invalid scope %q.", d.Scope),
			map[string]string{"field": "scope"})
	}
	for _, existing := range p.dimensions {
		if existing.ParameterName == d.ParameterName && existing.Scope == d.Scope {
			return CustomDimension{}, apperrors.WithMetadata(apperrors.CodeAlreadyExists,
				fmt.Sprintf("Custom dimension with parameter name %q and scope %s already exists.", d.ParameterName, d.Scope),
				map[string]string{"parameterName": d.ParameterName})
		}
	}

	d.Name = resourcename.Sprint(customDimensionPattern, p.id, s.allocateID())
	p.dimensions = append(p.dimensions, d)
	return d, nil
}

func (s *MemoryStore) createConversionEvent(p *property, eventName string) (ConversionEvent, error) {
	if !eventNamePattern.MatchString(eventName) {
		return ConversionEvent{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			fmt.Sprintf("Invalid event name %q.", eventName),
			map[string]string{"field": "eventName"})
	}
	for _, existing := range p.events {
		if existing.EventName == eventName {
			return ConversionEvent{}, apperrors.WithMetadata(apperrors.CodeAlreadyExists,
				fmt.Sprintf("Conversion event %q already exists.", eventName),
				map[string]string{"eventName": eventName})
		}
	}

	event := ConversionEvent{
		Name:           resourcename.Sprint(conversionEventPattern, p.id, s.allocateID()),
		EventName:      eventName,
		CreateTime:     s.timestamp(),
		Deletable:      true,
		Custom:         true,
		CountingMethod: countingOncePerEvent,
	}
	p.events = append(p.events, event)
	return event, nil
}

// allocateID must be called with the write lock held.
func (s *MemoryStore) allocateID() string {
	id := strconv.FormatInt(s.nextID, 10)
	s.nextID++
	return id
}

func (s *MemoryStore) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}
