// Package cleaner defines the interface shared by markup transformations.
// A Cleaner takes markup text and returns the transformed text; cleaners can be
// chained so that several categories of class tokens are stripped in one pass.
package cleaner

// Cleaner transforms markup text.
type Cleaner interface {
	// Clean returns the transformed input. Implementations must not fail
	// on input they have nothing to do with; they return it unchanged.
	Clean(markup string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}
