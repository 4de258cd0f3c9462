package scanner

import (
	"sort"
	"sync"
)

// collector gathers finished records from concurrent workers
type collector struct {
	mu      sync.Mutex
	records []FileRecord
	failed  int
}

func newCollector(capacity int) *collector {
	return &collector{
		records: make([]FileRecord, 0, capacity),
	}
}

// add appends a record and returns the running done and failed counts
func (c *collector) add(rec FileRecord) (done, failed int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = append(c.records, rec)
	if rec.Failed() {
		c.failed++
	}
	return len(c.records), c.failed
}

// sorted returns the records in filename order. Completion order under
// concurrency is not deterministic, so callers must use this.
func (c *collector) sorted() []FileRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]FileRecord, len(c.records))
	copy(records, c.records)
	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return records
}
