package startupradar

import (
	"context"
	"net/url"
	"strconv"

	"github.com/startupradar/transformers/common/model"
)

// GenerateDomains returns an iterator over all domain records known to the
// API, walking /web/domains page by page until an empty page is returned.
// The enumeration is a stream, not a point lookup, so it never touches the
// cache. Calling GenerateDomains again restarts from page zero.
func (s *service) GenerateDomains(ctx context.Context) *DomainIterator {
	return &DomainIterator{
		ctx:       ctx,
		client:    s.client,
		pageLimit: s.client.PageLimit(),
	}
}

// DomainIterator lazily walks the domain listing endpoint. Usage follows
// the scanner pattern:
//
//	it := svc.GenerateDomains(ctx)
//	for it.Next() {
//		record := it.Record()
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type DomainIterator struct {
	ctx       context.Context
	client    Client
	pageLimit int

	page int
	buf  []model.DomainRecord
	pos  int
	done bool
	err  error
}

// Next advances to the next record, fetching the next page when the
// current one is exhausted. It returns false at the end of the enumeration
// or on error; check Err afterwards.
func (it *DomainIterator) Next() bool {
	if it.err != nil {
		return false
	}
	if it.pos+1 < len(it.buf) {
		it.pos++
		return true
	}
	if it.done {
		return false
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(it.page))
	params.Set("limit", strconv.Itoa(it.pageLimit))
	raw, err := it.client.Send(it.ctx, "/web/domains", params)
	if err != nil {
		it.err = err
		return false
	}

	var records []model.DomainRecord
	if err := model.JSONUnmarshal(raw, &records); err != nil {
		it.err = err
		return false
	}
	it.page++

	if len(records) == 0 {
		// empty page -> enumeration exhausted
		it.done = true
		return false
	}
	it.buf = records
	it.pos = 0
	return true
}

// Record returns the record Next advanced to.
func (it *DomainIterator) Record() model.DomainRecord {
	return it.buf[it.pos]
}

// Err returns the first error encountered while iterating, if any.
func (it *DomainIterator) Err() error {
	return it.err
}
