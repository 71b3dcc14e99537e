package lendwire

import "fmt"

// Generation selects one deployed revision of the protocol's binary
// contract. Record spans, the command table, and the program identity are
// all pinned per generation and never mutated once published: data already
// written on chain under an old generation stays decodable by keeping the
// old registry around, not by patching it.
type Generation uint8

const (
	// GenerationA is the first deployment: markets without pool counters,
	// no obligations, and only the two bootstrap commands.
	GenerationA Generation = iota + 1
	// GenerationB adds pool counters, obligations, and the full borrow /
	// repay command set.
	GenerationB
	// GenerationC adds pool borrow accounting, oracle references, and
	// obligation interest accrual.
	GenerationC
)

func (g Generation) String() string {
	switch g {
	case GenerationA:
		return "A"
	case GenerationB:
		return "B"
	case GenerationC:
		return "C"
	default:
		return fmt.Sprintf("Generation(%d)", uint8(g))
	}
}

// Valid reports whether g names a known generation.
func (g Generation) Valid() bool {
	return g >= GenerationA && g <= GenerationC
}

// ParseGeneration maps a configuration string ("a", "B", ...) to a
// Generation.
func ParseGeneration(s string) (Generation, error) {
	switch s {
	case "a", "A":
		return GenerationA, nil
	case "b", "B":
		return GenerationB, nil
	case "c", "C":
		return GenerationC, nil
	default:
		return 0, fmt.Errorf("lendwire: unknown generation %q", s)
	}
}
