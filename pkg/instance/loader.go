package instance

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// LoadOptions controls problem-file parsing.
type LoadOptions struct {
	// AppendNil canonicalizes every preference list to end with the nil
	// hospital (or (nil, nil) for couples), so a later comparison against
	// a matching always has a rank slot for "unmatched" (spec §4.1).
	AppendNil bool
}

// LoadFile parses a problem file from disk.
func LoadFile(path string, opts LoadOptions) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening problem file: %w", err)
	}
	defer f.Close()
	return Load(f, opts)
}

// isCommentLine reports whether a raw (untrimmed) line is a comment:
// blank, or starting with "#" or leading whitespace (spec §4.1, §6).
func isCommentLine(raw string) bool {
	if raw == "" {
		return true
	}
	switch raw[0] {
	case '#', ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

func parseHospitalToken(tok string) (int, error) {
	if tok == NilHospitalSymbol {
		return NilHospitalUID, nil
	}
	return strconv.Atoi(tok)
}

// Load parses a problem file in the line-oriented format of spec §6:
// "r <uid> <h_uid>..." for a single, "p <uid> <capacity> <r_uid>..."
// for a hospital, and "c <uid> <r0> <r1> <ha0> <hb0> ...>" for a
// couple. It does not check that referenced uids exist on the other
// side of the relation, but does reject duplicate uids and residents
// claimed by more than one couple.
func Load(r io.Reader, opts LoadOptions) (*Instance, error) {
	inst := newInstance()

	type pendingHospital struct {
		uid      int
		capacity int
		ranking  []int
	}
	type pendingSingle struct {
		uid     int
		ranking []int
	}
	type pendingCouple struct {
		uid       int
		residents [2]int
		pairs     []HospitalPair
	}

	var (
		singles   []pendingSingle
		hospitals []pendingHospital
		couples   []pendingCouple

		// seeded with the nil-hospital uid so no record can reuse it
		residentUIDs = map[int]bool{NilHospitalUID: true}
		hospitalUIDs = map[int]bool{NilHospitalUID: true}
		coupleUIDs   = map[int]bool{NilHospitalUID: true}
		inACouple    = map[int]bool{}
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if isCommentLine(raw) {
			continue
		}
		items := strings.Fields(raw)
		if len(items) == 0 {
			continue
		}

		perr := func(err error) error {
			return &ParseError{Line: lineNo, Text: raw, Err: err}
		}

		switch items[0] {
		case "r":
			if len(items) < 2 {
				return nil, perr(ErrMalformedRecord)
			}
			uid, err := strconv.Atoi(items[1])
			if err != nil {
				return nil, perr(fmt.Errorf("%w: resident uid: %v", ErrMalformedRecord, err))
			}
			if residentUIDs[uid] {
				return nil, perr(fmt.Errorf("%w: resident %d", ErrDuplicateUID, uid))
			}
			residentUIDs[uid] = true
			ranking := make([]int, 0, len(items)-2)
			for _, tok := range items[2:] {
				h, err := parseHospitalToken(tok)
				if err != nil {
					return nil, perr(fmt.Errorf("%w: hospital uid: %v", ErrMalformedRecord, err))
				}
				ranking = append(ranking, h)
			}
			singles = append(singles, pendingSingle{uid: uid, ranking: ranking})

		case "p":
			if len(items) < 3 {
				return nil, perr(ErrMalformedRecord)
			}
			uid, err := strconv.Atoi(items[1])
			if err != nil {
				return nil, perr(fmt.Errorf("%w: hospital uid: %v", ErrMalformedRecord, err))
			}
			if hospitalUIDs[uid] {
				return nil, perr(fmt.Errorf("%w: hospital %d", ErrDuplicateUID, uid))
			}
			hospitalUIDs[uid] = true
			capacity, err := strconv.Atoi(items[2])
			if err != nil {
				return nil, perr(fmt.Errorf("%w: capacity: %v", ErrMalformedRecord, err))
			}
			ranking := make([]int, 0, len(items)-3)
			for _, tok := range items[3:] {
				rUID, err := strconv.Atoi(tok)
				if err != nil {
					return nil, perr(fmt.Errorf("%w: resident uid: %v", ErrMalformedRecord, err))
				}
				ranking = append(ranking, rUID)
			}
			hospitals = append(hospitals, pendingHospital{uid: uid, capacity: capacity, ranking: ranking})

		case "c":
			if len(items) < 4 || (len(items)-4)%2 != 0 {
				return nil, perr(ErrMalformedRecord)
			}
			uid, err := strconv.Atoi(items[1])
			if err != nil {
				return nil, perr(fmt.Errorf("%w: couple uid: %v", ErrMalformedRecord, err))
			}
			if coupleUIDs[uid] {
				return nil, perr(fmt.Errorf("%w: couple %d", ErrDuplicateUID, uid))
			}
			coupleUIDs[uid] = true
			r0, err := strconv.Atoi(items[2])
			if err != nil {
				return nil, perr(fmt.Errorf("%w: resident0 uid: %v", ErrMalformedRecord, err))
			}
			r1, err := strconv.Atoi(items[3])
			if err != nil {
				return nil, perr(fmt.Errorf("%w: resident1 uid: %v", ErrMalformedRecord, err))
			}
			for _, ru := range [2]int{r0, r1} {
				if inACouple[ru] {
					return nil, perr(fmt.Errorf("%w: resident %d already in couple %d", ErrResidentAlreadyCoupled, ru, uid))
				}
				if residentUIDs[ru] {
					return nil, perr(fmt.Errorf("%w: resident %d", ErrDuplicateUID, ru))
				}
			}
			residentUIDs[r0] = true
			residentUIDs[r1] = true
			inACouple[r0] = true
			inACouple[r1] = true

			var pairs []HospitalPair
			for i := 4; i < len(items); i += 2 {
				ha, err := parseHospitalToken(items[i])
				if err != nil {
					return nil, perr(fmt.Errorf("%w: hospital uid: %v", ErrMalformedRecord, err))
				}
				hb, err := parseHospitalToken(items[i+1])
				if err != nil {
					return nil, perr(fmt.Errorf("%w: hospital uid: %v", ErrMalformedRecord, err))
				}
				pairs = append(pairs, HospitalPair{ha, hb})
			}
			couples = append(couples, pendingCouple{uid: uid, residents: [2]int{r0, r1}, pairs: pairs})

		default:
			return nil, perr(ErrUnknownRecordType)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading problem file: %w", err)
	}

	for _, h := range hospitals {
		inst.Hospitals[h.uid] = &Hospital{
			UID:      h.uid,
			Capacity: h.capacity,
			Pref:     NewListPreference(h.ranking),
		}
		inst.HospitalOrder = append(inst.HospitalOrder, h.uid)
	}

	for _, s := range singles {
		ranking := s.ranking
		if opts.AppendNil {
			ranking = appendNilSingle(ranking)
		}
		inst.Residents[s.uid] = &Resident{UID: s.uid, Pref: NewListPreference(ranking)}
		inst.Singles = append(inst.Singles, s.uid)
	}

	for _, c := range couples {
		pairs := c.pairs
		if opts.AppendNil {
			pairs = appendNilPair(pairs)
		}
		couple := newCouple(c.uid, c.residents, NewListJointPreference(pairs))
		inst.Couples[c.uid] = couple
		inst.CoupleOrder = append(inst.CoupleOrder, c.uid)
		for _, ru := range c.residents {
			cu := c.uid
			inst.Residents[ru] = &Resident{UID: ru, Couple: &cu}
		}
	}

	return inst, nil
}

func appendNilSingle(ranking []int) []int {
	out := make([]int, len(ranking))
	copy(out, ranking)
	if len(out) > 0 && out[len(out)-1] == NilHospitalUID {
		out = out[:len(out)-1]
	}
	if len(out) == 0 || out[len(out)-1] != NilHospitalUID {
		out = append(out, NilHospitalUID)
	}
	return out
}

func appendNilPair(pairs []HospitalPair) []HospitalPair {
	out := make([]HospitalPair, len(pairs))
	copy(out, pairs)
	nilPair := HospitalPair{NilHospitalUID, NilHospitalUID}
	if len(out) == 0 || out[len(out)-1] != nilPair {
		out = append(out, nilPair)
	}
	return out
}

// LoadMatchingFile parses a matching file (spec §6) into a resident
// uid -> hospital uid map.
func LoadMatchingFile(path string) (Matching, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening matching file: %w", err)
	}
	defer f.Close()
	return LoadMatching(f)
}

// LoadMatching parses a matching file body.
func LoadMatching(r io.Reader) (Matching, error) {
	m := Matching{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != "r" {
			continue
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed matching line: %q", line)
		}
		rUID, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("malformed resident uid: %w", err)
		}
		hUID, err := parseHospitalToken(fields[2])
		if err != nil {
			return nil, fmt.Errorf("malformed hospital uid: %w", err)
		}
		m[rUID] = hUID
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading matching file: %w", err)
	}
	return m, nil
}

// WriteMatchingFile writes a matching file in the format of spec §6,
// with an optional leading "# <header>" comment.
func WriteMatchingFile(path string, m Matching, header string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating matching file: %w", err)
	}
	defer f.Close()
	return WriteMatching(f, m, header)
}

// WriteMatching writes a matching in the format of spec §6.
func WriteMatching(w io.Writer, m Matching, header string) error {
	bw := bufio.NewWriter(w)
	if header != "" {
		if _, err := fmt.Fprintf(bw, "# %s\n", header); err != nil {
			return err
		}
	}
	if len(m) == 0 {
		if _, err := fmt.Fprintln(bw, "m 0"); err != nil {
			return err
		}
		return bw.Flush()
	}
	if _, err := fmt.Fprintln(bw, "m 1"); err != nil {
		return err
	}
	for _, rUID := range sortedKeys(m) {
		hUID := m[rUID]
		if hUID == NilHospitalUID {
			if _, err := fmt.Fprintf(bw, "r %d %s\n", rUID, NilHospitalSymbol); err != nil {
				return err
			}
		} else if _, err := fmt.Fprintf(bw, "r %d %d\n", rUID, hUID); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func sortedKeys(m Matching) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
