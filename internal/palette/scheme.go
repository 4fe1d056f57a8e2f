package palette

import (
	"fmt"
	"strconv"
	"strings"
)

// Scheme identifies one of the built-in palettes. The numeric values are
// the identifiers accepted on the command line and in job files.
type Scheme int

const (
	RdBu Scheme = iota
	YlGnBu
	BrBG
	PiYG
	RdYlGn
	PuBuGn
	RdPu
	LimeSlate
	SkyBrown
	NavyYellow
	SandBlue
	BlueSand
	TealDeepPink
	TealDarkRed

	// Default is used for any identifier outside the known set.
	Default = RdBu
)

type schemeDef struct {
	name  string
	stops []string
}

// Hex stops from colorbrewer2.org (RdBu .. RdPu), tristen.ca/hcl-picker
// (LimeSlate .. BlueSand) and gka.github.io/palettes (Teal*).
var schemes = [...]schemeDef{
	RdBu: {"rdbu", []string{
		"053061", "2166ac", "4393c3", "92c5de", "d1e5f0", "f7f7f7",
		"fddbc7", "f4a582", "d6604d", "b2182b", "67001f",
	}},
	YlGnBu: {"ylgnbu", []string{
		"ffffd9", "edf8b1", "c7e9b4", "7fcdbb", "41b6c4", "1d91c0",
		"225ea8", "253494", "081d58",
	}},
	BrBG: {"brbg", []string{
		"543005", "8c510a", "bf812d", "dfc27d", "f6e8c3", "f5f5f5",
		"c7eae5", "80cdc1", "35978f", "01665e", "003c30",
	}},
	PiYG: {"piyg", []string{
		"8e0152", "c51b7d", "de77ae", "f1b6da", "fde0ef", "f7f7f7",
		"e6f5d0", "b8e186", "7fbc41", "4d9221", "276419",
	}},
	// The repeated fdae61 stop is kept so renders match earlier output.
	RdYlGn: {"rdylgn", []string{
		"a50026", "d73027", "f46d43", "fdae61", "fdae61", "ffffbf",
		"d9ef8b", "a6d96a", "66bd63", "1a9850", "006837",
	}},
	PuBuGn: {"pubugn", []string{
		"fff7fb", "ece2f0", "d0d1e6", "a6bddb", "67a9cf", "3690c0",
		"02818a", "016c59", "014636",
	}},
	RdPu: {"rdpu", []string{
		"fff7f3", "fde0dd", "fcc5c0", "fa9fb5", "f768a1", "dd3497",
		"ae017e", "7a0177", "49006a",
	}},
	LimeSlate: {"lime-slate", []string{
		"caf270", "73d487", "30b097", "288993", "41607a", "453b52",
	}},
	SkyBrown: {"sky-brown", []string{
		"80c5f4", "929acb", "92729c", "824f6b", "653340", "411d1e",
	}},
	NavyYellow: {"navy-yellow", []string{
		"21313e", "20575f", "268073", "53a976", "98cf6f", "efee69",
	}},
	SandBlue: {"sand-blue", []string{
		"d8c8bc", "b4abc5", "8f90c5", "6876bd", "415dad", "134695",
	}},
	BlueSand: {"blue-sand", []string{
		"134695", "415dad", "6876bd", "8f90c5", "b4abc5", "d8c8bc",
	}},
	TealDeepPink: {"teal-deeppink", []string{
		"008080", "399785", "5aaf8c", "7ac696", "9edba4", "c7f0ba", "ffffe0",
		"ffd1c9", "fea0ac", "ef738b", "d84765", "b61d39", "8b0000",
	}},
	TealDarkRed: {"teal-darkred", []string{
		"008080", "399785", "5aaf8c", "7ac696", "9edba4", "c7f0ba", "ffffe0",
		"f1d7b7", "e2b08f", "cf8a69", "bb6345", "a43c23", "8b0000",
	}},
}

// decoded holds the parsed stops, indexed like schemes.
var decoded [len(schemes)][]Color

func init() {
	for i, def := range schemes {
		cs := make([]Color, len(def.stops))
		for j, h := range def.stops {
			cs[j] = MustParseHex(h)
		}
		decoded[i] = cs
	}
}

// Valid reports whether s names a built-in palette.
func (s Scheme) Valid() bool {
	return s >= 0 && int(s) < len(schemes)
}

// Resolve returns s, or Default when s is not a known identifier.
func (s Scheme) Resolve() Scheme {
	if !s.Valid() {
		return Default
	}
	return s
}

// String returns the palette name used in job files.
func (s Scheme) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
	return schemes[s].name
}

// Colors returns a copy of the reference colours of s. Unknown identifiers
// yield the Default palette.
func (s Scheme) Colors() []Color {
	src := decoded[s.Resolve()]
	out := make([]Color, len(src))
	copy(out, src)
	return out
}

// ParseScheme accepts either a palette name ("rdbu", "teal-darkred", ...)
// or its numeric identifier. Numeric identifiers outside the known set are
// accepted and resolve to Default when used.
func ParseScheme(v string) (Scheme, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if n, err := strconv.Atoi(v); err == nil {
		return Scheme(n), nil
	}
	for i, def := range schemes {
		if def.name == v {
			return Scheme(i), nil
		}
	}
	return Default, fmt.Errorf("unknown colour scheme %q", v)
}

// Schemes lists the built-in palettes in identifier order.
func Schemes() []Scheme {
	out := make([]Scheme, len(schemes))
	for i := range schemes {
		out[i] = Scheme(i)
	}
	return out
}
