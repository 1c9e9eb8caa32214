package satenc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aperrault/stable-matching-suite/pkg/instance"
)

// Decode reads a SAT solver's "v ..." model lines (space-separated
// signed literals, 0-terminated, possibly split across several "v"
// lines) and returns the matching implied by the true "xr_"/"xc_"
// variables (spec §6; mirrors smp_c.py's post-solve loop in
// solve_sat).
func Decode(modelLines []string, alloc *VarAllocator, inst *instance.Instance) (instance.Matching, error) {
	matching := instance.Matching{}
	for _, line := range modelLines {
		for _, field := range strings.Fields(line) {
			if field == "v" || field == "0" {
				continue
			}
			lit, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("decoding model literal %q: %w", field, err)
			}
			if lit <= 0 {
				continue
			}
			name := alloc.Name(lit)
			switch {
			case strings.HasPrefix(name, "xr_"):
				rUID, hUID, err := splitPair(strings.TrimPrefix(name, "xr_"))
				if err != nil {
					return nil, err
				}
				if hUID != instance.NilHospitalUID {
					matching[rUID] = hUID
				}
			case strings.HasPrefix(name, "xc_"):
				_, rUID, hUID, err := splitTriple(strings.TrimPrefix(name, "xc_"))
				if err != nil {
					return nil, err
				}
				if hUID != instance.NilHospitalUID {
					matching[rUID] = hUID
				}
			}
		}
	}
	for _, rUID := range inst.Singles {
		if _, ok := matching[rUID]; !ok {
			matching[rUID] = instance.NilHospitalUID
		}
	}
	return matching, nil
}

func splitPair(s string) (int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("satenc: malformed pair %q", s)
	}
	a, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("satenc: malformed pair %q: %w", s, err)
	}
	b, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("satenc: malformed pair %q: %w", s, err)
	}
	return a, b, nil
}

func splitTriple(s string) (int, int, int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("satenc: malformed triple %q", s)
	}
	a, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("satenc: malformed triple %q: %w", s, err)
	}
	b, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("satenc: malformed triple %q: %w", s, err)
	}
	c, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("satenc: malformed triple %q: %w", s, err)
	}
	return a, b, c, nil
}
