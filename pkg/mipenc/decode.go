package mipenc

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aperrault/stable-matching-suite/pkg/instance"
)

// Solution is a parsed CPLEX solution listing: the objective value (if
// present) and the value of every variable CPLEX printed.
type Solution struct {
	Objective *float64
	Values    map[string]float64
}

// ParseSolution parses CPLEX's "display solution variables -" output:
// an optional "Objective = <value>" line, a "Variable Name   Value"
// header, one "<name> <value>" row per nonzero variable, and a
// terminating "All other variables in the range ... are zero" line.
// A listing with no "Variable Name" header at all means CPLEX found no
// solution (spec §6), reported as a nil Solution.
func ParseSolution(r io.Reader) (*Solution, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	sol := &Solution{Values: map[string]float64{}}
	inVars := false
	for scanner.Scan() {
		line := scanner.Text()
		if !inVars {
			if strings.Contains(line, "Objective =") {
				idx := strings.Index(line, "Objective = ")
				val, err := strconv.ParseFloat(strings.TrimSpace(line[idx+len("Objective = "):]), 64)
				if err != nil {
					return nil, fmt.Errorf("parsing objective line %q: %w", line, err)
				}
				sol.Objective = &val
			}
			if strings.Contains(line, "Variable Name") {
				inVars = true
			}
			continue
		}
		if strings.Contains(line, "All other variables in the range") {
			break
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		val, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		sol.Values[fields[0]] = val
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading cplex solution: %w", err)
	}
	if !inVars {
		return nil, nil
	}
	return sol, nil
}

// Decode converts a parsed Solution into a resident-uid -> hospital-uid
// matching, reading the "x_..." binaries CPLEX set to 1 and resolving
// couple match variables ("x_<couple>,<h0>,<h1>") against inst to
// populate both members' assignments (spec §6; mirrors smp_c.py's
// post-solve loop in solve_mip).
func Decode(sol *Solution, inst *instance.Instance) (instance.Matching, error) {
	matching := instance.Matching{}
	for name, val := range sol.Values {
		if val != 1 || !strings.HasPrefix(name, "x_") {
			continue
		}
		parts := strings.Split(strings.TrimPrefix(name, "x_"), ",")
		switch len(parts) {
		case 2:
			rUID, err := strconv.Atoi(parts[0])
			if err != nil {
				return nil, fmt.Errorf("decoding variable %q: %w", name, err)
			}
			hUID, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, fmt.Errorf("decoding variable %q: %w", name, err)
			}
			if hUID != instance.NilHospitalUID {
				matching[rUID] = hUID
			}
		case 3:
			cUID, err := strconv.Atoi(parts[0])
			if err != nil {
				return nil, fmt.Errorf("decoding variable %q: %w", name, err)
			}
			h0UID, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, fmt.Errorf("decoding variable %q: %w", name, err)
			}
			h1UID, err := strconv.Atoi(parts[2])
			if err != nil {
				return nil, fmt.Errorf("decoding variable %q: %w", name, err)
			}
			c, ok := inst.Couple(cUID)
			if !ok {
				return nil, fmt.Errorf("decoding variable %q: unknown couple %d", name, cUID)
			}
			if h0UID != instance.NilHospitalUID {
				matching[c.Residents[0]] = h0UID
			}
			if h1UID != instance.NilHospitalUID {
				matching[c.Residents[1]] = h1UID
			}
		default:
			return nil, fmt.Errorf("decoding variable %q: unexpected arity", name)
		}
	}
	for _, rUID := range inst.Singles {
		if _, ok := matching[rUID]; !ok {
			matching[rUID] = instance.NilHospitalUID
		}
	}
	return matching, nil
}
