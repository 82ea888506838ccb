package models

// Meta is what every view needs to display an enum value.
// Badge is the Bootstrap contextual class used for the pill.
type Meta struct {
	Label string
	Badge string
}

var unknownMeta = Meta{Label: "-", Badge: "light"}

// Option is a value/label pair for selects and filter dropdowns.
type Option struct {
	Value string
	Label string
}

func options[T ~string](values []T, meta func(T) Meta) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: string(v), Label: meta(v).Label})
	}
	return out
}
