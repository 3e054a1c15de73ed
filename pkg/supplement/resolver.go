// Package supplement defines the resolver capability used to find files that
// accompany another file, such as a header paired with a source file.
package supplement

// Resolver implementations map a file to zero or more supplementary files.
type Resolver interface {
	// Resolve takes the absolute path of the current file and the extensions
	// declared for its file type, and returns the paths of its supplements.
	Resolve(filename string, extensions []string) ([]string, error)
}

// ResolverFunc adapts an ordinary function to the Resolver interface.
type ResolverFunc func(filename string, extensions []string) ([]string, error)

// Resolve implements the Resolver interface.
func (f ResolverFunc) Resolve(filename string, extensions []string) ([]string, error) {
	return f(filename, extensions)
}
