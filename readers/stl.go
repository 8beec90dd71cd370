// Package readers extracts vertex extents from the surface files under
// constant/triSurface and imports new ones into a case.
package readers

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrNoVertices  = errors.New("no vertices found")
	ErrBinaryShort = errors.New("binary STL shorter than its 84 byte header")
)

const (
	stlHeader = 80
	stlFacet  = 50 // normal, three vertices, attribute count
)

// extent accumulates the bounding box of finite vertices
type extent struct {
	box r3.Box
	n   int
}

func (e *extent) add(x, y, z float64) {
	for _, v := range []float64{x, y, z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
	}
	p := r3.Vec{X: x, Y: y, Z: z}
	if e.n == 0 {
		e.box = r3.Box{Min: p, Max: p}
	} else {
		e.box.Min = r3.Vec{X: math.Min(e.box.Min.X, x), Y: math.Min(e.box.Min.Y, y), Z: math.Min(e.box.Min.Z, z)}
		e.box.Max = r3.Vec{X: math.Max(e.box.Max.X, x), Y: math.Max(e.box.Max.Y, y), Z: math.Max(e.box.Max.Z, z)}
	}
	e.n++
}

func (e *extent) result() (r3.Box, error) {
	if e.n == 0 {
		return r3.Box{}, ErrNoVertices
	}
	return e.box, nil
}

const number = `([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)`

var asciiVertex = regexp.MustCompile(`vertex\s+` + number + `\s+` + number + `\s+` + number)

// ReadASCIISTL bounds the "vertex x y z" lines of an ascii STL
func ReadASCIISTL(data []byte) (r3.Box, error) {
	var e extent
	for _, m := range asciiVertex.FindAllSubmatch(data, -1) {
		x, errX := strconv.ParseFloat(string(m[1]), 64)
		y, errY := strconv.ParseFloat(string(m[2]), 64)
		z, errZ := strconv.ParseFloat(string(m[3]), 64)
		if errX == nil && errY == nil && errZ == nil {
			e.add(x, y, z)
		}
	}
	return e.result()
}

// Facet is one binary STL triangle
type Facet struct {
	Normal   [3]float32
	Vertices [3][3]float32
}

// ReadBinaryFacets decodes the facets of a binary STL. A truncated file yields the
// facets that fit.
func ReadBinaryFacets(data []byte) ([]Facet, error) {
	if len(data) < stlHeader+4 {
		return nil, ErrBinaryShort
	}
	count := int(binary.LittleEndian.Uint32(data[stlHeader:]))
	off := stlHeader + 4
	facets := make([]Facet, 0, min(count, (len(data)-off)/stlFacet))
	f32 := func(at int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[at:]))
	}
	for i := 0; i < count && off+stlFacet <= len(data); i++ {
		var f Facet
		for k := 0; k < 3; k++ {
			f.Normal[k] = f32(off + 4*k)
		}
		for v := 0; v < 3; v++ {
			for k := 0; k < 3; k++ {
				f.Vertices[v][k] = f32(off + 12 + 12*v + 4*k)
			}
		}
		facets = append(facets, f)
		off += stlFacet
	}
	return facets, nil
}

func ReadBinarySTL(data []byte) (r3.Box, error) {
	facets, err := ReadBinaryFacets(data)
	if err != nil {
		return r3.Box{}, err
	}
	var e extent
	for _, f := range facets {
		for _, v := range f.Vertices {
			e.add(float64(v[0]), float64(v[1]), float64(v[2]))
		}
	}
	return e.result()
}

func looksSolid(data []byte) bool {
	head := data[:min(len(data), 4096)]
	return strings.HasPrefix(strings.ToLower(string(bytes.TrimSpace(head))), "solid")
}

// ReadSTL bounds an STL of either encoding. Files starting with "solid" are tried as
// ascii first; binary files whose header happens to say "solid" still fall through.
func ReadSTL(data []byte) (r3.Box, error) {
	first, second := ReadBinarySTL, ReadASCIISTL
	if looksSolid(data) {
		first, second = ReadASCIISTL, ReadBinarySTL
	}
	if box, err := first(data); err == nil {
		return box, nil
	}
	return second(data)
}

// ReadOBJ bounds the "v x y z" lines of a Wavefront OBJ
func ReadOBJ(data []byte) (r3.Box, error) {
	var e extent
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 || fields[0] != "v" {
			continue
		}
		var p [3]float64
		ok := true
		for k := range p {
			var err error
			if p[k], err = strconv.ParseFloat(fields[k+1], 64); err != nil {
				ok = false
			}
		}
		if ok {
			e.add(p[0], p[1], p[2])
		}
	}
	if err := sc.Err(); err != nil {
		return r3.Box{}, err
	}
	return e.result()
}
