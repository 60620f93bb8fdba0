package contracts

import "strings"

// ModeRegistry lists the agent identifiers declared globally, one per non-empty line.
type ModeRegistry struct {
	identifiers []string
	lookup      map[string]struct{}
}

// ParseModeRegistry reads identifiers from registry content, trimming each line.
func ParseModeRegistry(content []byte) ModeRegistry {
	registry := ModeRegistry{lookup: map[string]struct{}{}}
	for _, line := range splitLines(content) {
		identifier := strings.TrimSpace(line)
		if len(identifier) == 0 {
			continue
		}
		if _, duplicate := registry.lookup[identifier]; duplicate {
			continue
		}
		registry.lookup[identifier] = struct{}{}
		registry.identifiers = append(registry.identifiers, identifier)
	}
	return registry
}

// Defines reports whether identifier is declared in the registry.
func (registry ModeRegistry) Defines(identifier string) bool {
	_, defined := registry.lookup[identifier]
	return defined
}

// Identifiers returns the declared identifiers in file order.
func (registry ModeRegistry) Identifiers() []string {
	return append([]string{}, registry.identifiers...)
}

// Len returns the number of distinct identifiers.
func (registry ModeRegistry) Len() int {
	return len(registry.identifiers)
}
