package views

// DataProvider represents a View's variable storage as seen by an
// Engine. Templates read variables through it (encoded by default) and
// may write new ones back.
type DataProvider interface {
	ViewValue(name string, htmlEncode bool) Value
	SetViewValue(name string, value Value)
	ViewValues(htmlEncode bool) map[string]Value
}

var _ DataProvider = (*View)(nil)
