package loaders

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ekarpp/spuristo/pkg/core"
)

// OBJData mirrors PLYData's shape so callers can hand either straight to
// geometry.NewTriangleMesh: flat vertex/normal arrays plus a 0-indexed,
// 3-per-triangle face list. Faces with more than three vertices are
// fan-triangulated as they're read.
type OBJData struct {
	Vertices []core.Vec3
	Faces    []int
	Normals  []core.Vec3
}

// LoadOBJ parses a Wavefront OBJ file. Only v/vn/f records are recognized;
// materials (mtllib/usemtl), texture coordinates and groups are skipped,
// since every mesh scene in this module assigns its own core.Material
// after loading rather than trusting the file's shading hints.
func LoadOBJ(filename string) (*OBJData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %v", err)
	}
	defer file.Close()

	data := &OBJData{}
	var normals []core.Vec3

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseOBJVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid vertex: %v", lineNo, err)
			}
			data.Vertices = append(data.Vertices, v)
		case "vn":
			n, err := parseOBJVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid normal: %v", lineNo, err)
			}
			normals = append(normals, n)
		case "f":
			indices := make([]int, 0, len(fields)-1)
			for _, token := range fields[1:] {
				idx, _, err := parseOBJFaceToken(token, len(data.Vertices), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid face vertex %q: %v", lineNo, token, err)
				}
				indices = append(indices, idx)
			}
			if len(indices) < 3 {
				return nil, fmt.Errorf("line %d: face has fewer than 3 vertices", lineNo)
			}
			// Fan-triangulate convex polygons (OBJ allows n-gons).
			for i := 1; i < len(indices)-1; i++ {
				data.Faces = append(data.Faces, indices[0], indices[i], indices[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ file: %v", err)
	}

	// Only trust vn as a per-vertex normal array when it lines up 1:1 with
	// v records (the common case for exporters that don't share vertices
	// across normals); otherwise let the mesh derive face normals itself.
	if len(normals) == len(data.Vertices) {
		data.Normals = normals
	}
	return data, nil
}

func parseOBJVec3(fields []string) (core.Vec3, error) {
	if len(fields) < 3 {
		return core.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return core.Vec3{}, err
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return core.Vec3{}, err
	}
	z, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return core.Vec3{}, err
	}
	return core.NewVec3(x, y, z), nil
}

// parseOBJFaceToken parses a face-vertex reference of the form
// "v", "v/vt" or "v/vt/vn" (any index field may be empty, e.g. "v//vn")
// and resolves OBJ's 1-based, possibly-negative indices into a 0-based
// vertex index.
func parseOBJFaceToken(token string, vertexCount, normalCount int) (vertexIdx, normalIdx int, err error) {
	parts := strings.Split(token, "/")
	vertexIdx, err = resolveOBJIndex(parts[0], vertexCount)
	if err != nil {
		return 0, 0, err
	}
	if len(parts) >= 3 && parts[2] != "" {
		normalIdx, err = resolveOBJIndex(parts[2], normalCount)
		if err != nil {
			return 0, 0, err
		}
	}
	return vertexIdx, normalIdx, nil
}

func resolveOBJIndex(field string, count int) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return n - 1, nil
	}
	if n < 0 {
		return count + n, nil
	}
	return 0, fmt.Errorf("index 0 is not valid in OBJ (1-based)")
}
