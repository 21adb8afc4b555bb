package parse

import (
	"database/sql"
	"time"
)

// ReportMeta is the report-level identity block parsed once from the top of
// the document and held immutable thereafter.
type ReportMeta struct {
	Filename   string
	WeekEnding time.Time
	HasWeekEnd bool
	WeekNum    sql.NullInt64
	Region     string
}

// Context carries the document-order state that the source leaves implicit:
// the active county group and the report metadata. Parsers consult it when
// a grouping value is not repeated on every row.
type Context struct {
	meta     ReportMeta
	metaSet  bool
	group    string
	hasGroup bool

	// projects participating for the active group, from its group header
	participating sql.NullInt64
}

// NewContext creates a Context for one document.
func NewContext(filename string) *Context {
	return &Context{meta: ReportMeta{Filename: filename}}
}

// SetMeta populates the report metadata. The first call wins; the header
// block appears once near the top and later matches are page furniture.
func (c *Context) SetMeta(meta ReportMeta) {
	if c.metaSet {
		return
	}
	meta.Filename = c.meta.Filename
	c.meta = meta
	c.metaSet = true
}

// Meta returns the report metadata; ok is false until a header block has
// been seen.
func (c *Context) Meta() (ReportMeta, bool) {
	return c.meta, c.metaSet
}

// SetGroup updates the active county group when a group-header row is
// recognized. Resets the participating count, which is per group.
func (c *Context) SetGroup(name string) {
	c.group = name
	c.hasGroup = name != ""
	c.participating = sql.NullInt64{}
}

// Group returns the active county group. A project row appearing before any
// group header sees ok == false and persists a null group, not a failure.
func (c *Context) Group() (string, bool) {
	return c.group, c.hasGroup
}

// SetParticipating records the group's participating-project count.
func (c *Context) SetParticipating(n int64) {
	c.participating = sql.NullInt64{Int64: n, Valid: true}
}

// Participating returns the active group's participating-project count.
func (c *Context) Participating() sql.NullInt64 {
	return c.participating
}
