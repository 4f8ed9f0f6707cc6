package export

// Table defines ordered tabular content for file downloads.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}
