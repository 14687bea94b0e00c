// Package prefs reads and writes the liquid bridge preference file.
//
// The legacy text format is line oriented:
//
//	Cohesion_Start_Time 0.0
//	Liquid_Density 1000
//	Surfaces Gamma Theta
//	glass:glass 0.072 0.1
//	glass:steel 0.07 0.3
//
// The first two lines carry a label and a value, the third line is a
// header and is discarded, every further line is a "typeA:typeB" pair
// followed by the surface tension and the wetting angle.
package prefs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/liquidbridge/internal/bridge"
)

// FileName is the preference file name the model asks the host for.
const FileName = "Liquid_Bridge_prefs.txt"

var (
	// ErrOpen indicates the preference file could not be opened.
	ErrOpen = errors.New("prefs: cannot open preference file")

	// ErrFormat indicates a preference file that could not be decoded at all.
	ErrFormat = errors.New("prefs: malformed preference file")
)

// Row is one bridge table entry.
type Row struct {
	TypeA  string
	TypeB  string
	Params bridge.Parameters
}

// Prefs is the decoded preference file.
type Prefs struct {
	CohesionStart float64
	LiquidDensity float64
	Rows          []Row
}

// Table builds the symmetric bridge table from the rows. Later rows replace
// earlier rows for the same pair.
func (p *Prefs) Table() *bridge.Table {
	t := bridge.NewTable()
	for _, r := range p.Rows {
		t.Add(r.TypeA, r.TypeB, r.Params)
	}
	return t
}

// Load reads the preference file at path. Files ending in .ini or .gcfg are
// decoded as INI, everything else as the legacy text format.
func Load(path string) (*Prefs, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".gcfg":
		return loadINI(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes the legacy text format. Header values that do not parse
// stay zero; table rows without exactly three fields or with unparseable
// numbers are skipped.
func Parse(r io.Reader) (*Prefs, error) {
	p := &Prefs{}
	sc := bufio.NewScanner(r)

	line := 0
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		line++

		switch line {
		case 1:
			p.CohesionStart = headerValue(fields)
		case 2:
			p.LiquidDensity = headerValue(fields)
		case 3:
		default:
			if row, ok := parseRow(fields); ok {
				p.Rows = append(p.Rows, row)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	return p, nil
}

func headerValue(fields []string) float64 {
	if len(fields) < 2 {
		return 0
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0
	}
	return v
}

func parseRow(fields []string) (Row, bool) {
	if len(fields) != 3 {
		return Row{}, false
	}
	gamma, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Row{}, false
	}
	theta, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Row{}, false
	}

	a, b := SplitPair(fields[0])
	return Row{
		TypeA:  a,
		TypeB:  b,
		Params: bridge.Parameters{SurfaceTension: gamma, WettingAngle: theta},
	}, true
}

// SplitPair splits "typeA:typeB" at the first colon. A token without a
// colon names the same type on both sides.
func SplitPair(token string) (string, string) {
	a, b, found := strings.Cut(token, ":")
	if !found {
		return token, token
	}
	return a, b
}

// Write encodes p in the legacy text format.
func Write(w io.Writer, p *Prefs) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Cohesion_Start_Time %s\n", formatFloat(p.CohesionStart))
	fmt.Fprintf(bw, "Liquid_Density %s\n", formatFloat(p.LiquidDensity))
	fmt.Fprintln(bw, "Surfaces Gamma Theta")
	for _, r := range p.Rows {
		fmt.Fprintf(bw, "%s:%s %s %s\n", r.TypeA, r.TypeB,
			formatFloat(r.Params.SurfaceTension), formatFloat(r.Params.WettingAngle))
	}
	return bw.Flush()
}

// Save writes p to path in the legacy text format.
func Save(path string, p *Prefs) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
