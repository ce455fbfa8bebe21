package render

// RenderOptions describe per-request attributes of the <form> element. The
// name, method and action always come from the builder.
type RenderOptions struct {
	ID    string
	Class string
	// Enctype defaults to multipart/form-data when the builder holds a file
	// input.
	Enctype string
	// NoValidate disables browser validation so server-side messages show.
	NoValidate bool
	// Attributes are emitted in key order. Keys the renderer owns (name,
	// method, action, id, class, enctype, novalidate) and names that are not
	// valid attribute names are ignored.
	Attributes map[string]string
}
