package admin

import (
	"context"
	"sync"
)

type listCall struct {
	parent string
	page   PageRequest
}

// fakeAPI records every call and serves canned data.
type fakeAPI struct {
	mu sync.Mutex

	accounts    []AccountSummary
	accountsErr error
	streams     map[string][]DataStream
	streamsErr  map[string]error

	dimension     CustomDimension
	dimensionErr  error
	dimensionList CustomDimensionList
	event         ConversionEvent
	eventErr      error
	eventList     ConversionEventList
	listErr       error

	accountCalls    int
	streamCalls     []string
	createdDims     []listCallDimension
	createdEvents   []listCallEvent
	dimensionLists  []listCall
	conversionLists []listCall
}

type listCallDimension struct {
	parent string
	body   CustomDimension
}

type listCallEvent struct {
	parent string
	body   ConversionEvent
}

func (f *fakeAPI) ListAccountSummaries(context.Context) ([]AccountSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accountCalls++
	return f.accounts, f.accountsErr
}

func (f *fakeAPI) ListDataStreams(_ context.Context, parent string) ([]DataStream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streamCalls = append(f.streamCalls, parent)
	if err := f.streamsErr[parent]; err != nil {
		return nil, err
	}
	return f.streams[parent], nil
}

func (f *fakeAPI) CreateCustomDimension(_ context.Context, parent string, body CustomDimension) (CustomDimension, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdDims = append(f.createdDims, listCallDimension{parent: parent, body: body})
	if f.dimensionErr != nil {
		return CustomDimension{}, f.dimensionErr
	}
	return f.dimension, nil
}

func (f *fakeAPI) ListCustomDimensions(_ context.Context, parent string, page PageRequest) (CustomDimensionList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dimensionLists = append(f.dimensionLists, listCall{parent: parent, page: page})
	return f.dimensionList, f.listErr
}

func (f *fakeAPI) CreateConversionEvent(_ context.Context, parent string, body ConversionEvent) (ConversionEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdEvents = append(f.createdEvents, listCallEvent{parent: parent, body: body})
	if f.eventErr != nil {
		return ConversionEvent{}, f.eventErr
	}
	return f.event, nil
}

func (f *fakeAPI) ListConversionEvents(_ context.Context, parent string, page PageRequest) (ConversionEventList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conversionLists = append(f.conversionLists, listCall{parent: parent, page: page})
	return f.eventList, f.listErr
}

func (f *fakeAPI) remoteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accountCalls + len(f.streamCalls)
}

func webStream(name, measurementID string) DataStream {
	return DataStream{Name: name, WebStreamData: &WebStreamData{MeasurementID: measurementID}}
}

func staticProvider(api API) ClientProvider {
	return NewLazyProvider(func(context.Context) (API, error) { return api, nil })
}
