package cfgtree

const (
	// DefaultIndent is the indent written once per nesting level.
	DefaultIndent = "  "

	// DefaultTagName is the struct tag read for field names and options.
	DefaultTagName = "cfg"
)

// FormatOptions provides options for controlling the formatter's output.
type FormatOptions struct {
	Indent  string // Written once per nesting level in front of every line.
	TagName string // Struct tag consulted for field names, "-" and norepr.
}

// Option configures a single Format, Marshal or Encoder call.
type Option func(*FormatOptions)

// WithIndent replaces the two-space indent unit.
func WithIndent(unit string) Option {
	return func(o *FormatOptions) {
		o.Indent = unit
	}
}

// WithTagName makes the formatter read a different struct tag, for example
// "json" when a config type is already annotated for decoding.
func WithTagName(name string) Option {
	return func(o *FormatOptions) {
		if name != "" {
			o.TagName = name
		}
	}
}

func newFormatOptions(opts []Option) FormatOptions {
	options := FormatOptions{
		Indent:  DefaultIndent,
		TagName: DefaultTagName,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
