package models

// RawRecord is a single row of the source file exactly as read: every field
// is text, no coercion. Code and Description are filled from whichever input
// columns the config maps to them; every other column lands in Extra keyed by
// its original header name.
type RawRecord struct {
	Code        string            `csv:"Code"`
	Description string            `csv:"Description"`
	Extra       map[string]string `csv:"-"`
}

// RawRecordSet holds the rows of one source file together with the header as
// it appeared in the file. CodeColumn and DescColumn are the original header
// names that were mapped onto Code and Description.
type RawRecordSet struct {
	Header     []string
	CodeColumn string
	DescColumn string
	Records    []RawRecord
}

// HasColumn reports whether name appeared in the source header.
func (s *RawRecordSet) HasColumn(name string) bool {
	for _, h := range s.Header {
		if h == name {
			return true
		}
	}
	return false
}

// RowValues reconstructs a record as a row in the original column order,
// suitable for writing back out with the original header.
func (s *RawRecordSet) RowValues(rec RawRecord) []string {
	row := make([]string, len(s.Header))
	for i, h := range s.Header {
		switch h {
		case s.CodeColumn:
			row[i] = rec.Code
		case s.DescColumn:
			row[i] = rec.Description
		default:
			row[i] = rec.Extra[h]
		}
	}
	return row
}

// CleanRecord is a validated, normalized, deduplicated ICD-10 row ready for
// downstream consumption. LastUpdated is the shared UTC timestamp of the run
// that produced it.
type CleanRecord struct {
	Code        string            `csv:"code"`
	Description string            `csv:"description"`
	LastUpdated string            `csv:"last_updated"`
	Extra       map[string]string `csv:"-"`
}
