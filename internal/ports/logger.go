package ports

// Logger defines the leveled logging sink with group/ungroup semantics for
// hierarchical display in the hosting workflow. Purely observational.
type Logger interface {
	Debug(format string, args ...any)
	Verbose(format string, args ...any)
	Info(format string, args ...any)
	Group(name string)
	EndGroup()
}
