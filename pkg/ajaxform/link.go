package ajaxform

// Select types understood by the modal script.
const (
	SelectSingle = "single"
	SelectMulti  = "multi"
)

// SelectLink is a HATEOAS-style link returned in initial data to fill a
// select input with related objects.
type SelectLink struct {
	Rel        string `json:"rel"`
	SelectType string `json:"selectType"`
	Data       []any  `json:"data"`
}

// NewSelectLink builds a link. Data is never nil so it encodes as [].
func NewSelectLink(rel, selectType string, data ...any) SelectLink {
	if data == nil {
		data = []any{}
	}
	return SelectLink{Rel: rel, SelectType: selectType, Data: data}
}
