package field

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// BohrToAngstrom converts cube-file lengths given in Bohr.
const BohrToAngstrom = 0.529177210903

// Cube holds the header of a Gaussian cube file together with its grid.
type Cube struct {
	Comment [2]string
	Atoms   []Atom
	Grid    *Grid
}

// Atom is one nucleus listed in a cube header, in the file's length unit.
type Atom struct {
	Number int
	Charge float64
	Pos    r3.Vec
}

// ReadCube parses a Gaussian cube file. Lengths are kept in the unit of the
// file: a negative point count on an axis line marks Angstrom, positive
// marks Bohr, and only the absolute value is used as the count. Files
// listing orbital indices after the atoms (negative atom count) are read
// as a single volumetric set.
func ReadCube(r io.Reader) (*Cube, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	next := func() ([]string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, fmt.Errorf("cube line %d: %w", line+1, err)
			}
			return nil, fmt.Errorf("cube line %d: %w", line+1, io.ErrUnexpectedEOF)
		}
		line++
		return strings.Fields(sc.Text()), nil
	}

	c := &Cube{}
	for i := 0; i < 2; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("cube header: %w", io.ErrUnexpectedEOF)
		}
		line++
		c.Comment[i] = strings.TrimSpace(sc.Text())
	}

	f, err := next()
	if err != nil {
		return nil, err
	}
	natoms, origin, err := parseCountVec(f)
	if err != nil {
		return nil, fmt.Errorf("cube line %d: %w", line, err)
	}
	withOrbitals := natoms < 0
	if natoms < 0 {
		natoms = -natoms
	}

	var (
		n     [3]int
		voxel [3]r3.Vec
	)
	for a := 0; a < 3; a++ {
		if f, err = next(); err != nil {
			return nil, err
		}
		cnt, v, err := parseCountVec(f)
		if err != nil {
			return nil, fmt.Errorf("cube line %d: %w", line, err)
		}
		if cnt < 0 {
			cnt = -cnt
		}
		n[a], voxel[a] = cnt, v
	}

	c.Atoms = make([]Atom, natoms)
	for i := range c.Atoms {
		if f, err = next(); err != nil {
			return nil, err
		}
		if len(f) < 5 {
			return nil, fmt.Errorf("cube line %d: atom record has %d fields", line, len(f))
		}
		vals, err := parseFloats(f[1:5])
		if err != nil {
			return nil, fmt.Errorf("cube line %d: %w", line, err)
		}
		num, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, fmt.Errorf("cube line %d: atom number: %w", line, err)
		}
		c.Atoms[i] = Atom{Number: num, Charge: vals[0], Pos: r3.Vec{X: vals[1], Y: vals[2], Z: vals[3]}}
	}
	if withOrbitals {
		// One line holding the orbital count followed by the indices.
		if _, err = next(); err != nil {
			return nil, err
		}
	}

	total := n[0] * n[1] * n[2]
	data := make([]float32, 0, total)
	for len(data) < total {
		if f, err = next(); err != nil {
			return nil, fmt.Errorf("cube data: read %d of %d values: %w", len(data), total, err)
		}
		for _, s := range f {
			if len(data) == total {
				break
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("cube line %d: %w", line, err)
			}
			data = append(data, float32(v))
		}
	}

	c.Grid, err = NewGrid(origin, voxel, n, data)
	if err != nil {
		return nil, fmt.Errorf("cube grid: %w", err)
	}
	return c, nil
}

func parseCountVec(f []string) (int, r3.Vec, error) {
	if len(f) < 4 {
		return 0, r3.Vec{}, fmt.Errorf("expected count and 3 components, got %d fields", len(f))
	}
	n, err := strconv.Atoi(f[0])
	if err != nil {
		return 0, r3.Vec{}, fmt.Errorf("count: %w", err)
	}
	v, err := parseFloats(f[1:4])
	if err != nil {
		return 0, r3.Vec{}, err
	}
	return n, r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

func parseFloats(f []string) ([]float64, error) {
	out := make([]float64, len(f))
	for i, s := range f {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
