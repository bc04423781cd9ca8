package loaders

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ekarpp/spuristo/pkg/core"
)

// plyHeader holds the parsed header of a PLY file: its element counts and
// per-element property lists, plus indices into VertexProps for the
// properties this loader understands.
type plyHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string
	VertexCount int
	FaceCount   int
	VertexProps []plyProperty
	FaceProps   []plyProperty

	HasNormals    bool
	HasColors     bool
	HasTexCoords  bool
	HasQuality    bool
	HasConfidence bool
	HasIntensity  bool

	NormalIndices   [3]int
	ColorIndices    [3]int
	TexCoordIndices [2]int
	QualityIndex    int
	ConfidenceIndex int
	IntensityIndex  int
}

// plyProperty is one "property ..." declaration inside a PLY element block.
type plyProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // element type of the list's count, for list properties
	DataType string // element type of the list's payload, for list properties
}

// PLYData is the raw geometry decoded from a PLY file, before it is handed
// to geometry.NewTriangleMesh.
type PLYData struct {
	Vertices   []core.Vec3
	Faces      []int       // 3 indices per triangle
	Normals    []core.Vec3 // per-vertex, empty if the file carries none
	Colors     []core.Vec3 // per-vertex, normalized to [0,1]
	TexCoords  []core.Vec2
	Quality    []float64
	Confidence []float64
	Intensity  []float64

	FaceColors    []core.Vec3
	FaceMaterials []int

	CustomFloatProps map[string][]float64
	CustomIntProps   map[string][]int
}

// LoadPLY reads a PLY file (binary_little_endian only) into a PLYData.
func LoadPLY(filename string) (*PLYData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %v", err)
	}
	defer file.Close()

	header, headerSize, err := parsePLYHeader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %v", err)
	}

	if _, err := file.Seek(int64(headerSize), io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to binary data: %v", err)
	}

	var data *PLYData
	switch header.Format {
	case "binary_little_endian":
		data, err = readBinaryLittleEndian(file, header)
	case "binary_big_endian":
		return nil, fmt.Errorf("binary big-endian PLY format not yet implemented")
	case "ascii":
		return nil, fmt.Errorf("ASCII PLY format not yet supported")
	default:
		return nil, fmt.Errorf("unsupported PLY format: %s", header.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY data: %v", err)
	}

	fmt.Printf("loaded PLY data: %d vertices, %d triangles in %v\n",
		len(data.Vertices), len(data.Faces)/3, time.Since(startTime))

	return data, nil
}

// parsePLYHeader reads the ASCII header of a PLY file and returns it along
// with the byte offset at which the binary payload begins.
func parsePLYHeader(file *os.File) (*plyHeader, int, error) {
	header := &plyHeader{
		VertexProps: make([]plyProperty, 0),
		FaceProps:   make([]plyProperty, 0),
	}

	scanner := bufio.NewScanner(file)
	var bytesRead int
	var currentElement string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		bytesRead += len(scanner.Bytes()) + 1 // +1 for the newline the scanner strips

		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "ply":
			// magic number; accepted without further checks
		case "format":
			if len(parts) >= 3 {
				header.Format = parts[1]
				header.Version = parts[2]
			}
		case "comment":
			// ignored
		case "element":
			if len(parts) < 3 {
				continue
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil {
				return nil, 0, fmt.Errorf("invalid element count: %s", parts[2])
			}
			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, 0, fmt.Errorf("failed to parse property: %v", err)
			}
			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
				recordVertexProperty(header, prop.Name, len(header.VertexProps)-1)
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("error reading header: %v", err)
	}

	return header, bytesRead, nil
}

// recordVertexProperty flags known optional vertex attributes (normals,
// colors, UVs, ...) on header and records where in VertexProps they live, so
// readBinaryLittleEndian doesn't need to re-scan property names per vertex.
func recordVertexProperty(header *plyHeader, name string, index int) {
	switch name {
	case "nx":
		header.HasNormals = true
		header.NormalIndices[0] = index
	case "ny":
		header.HasNormals = true
		header.NormalIndices[1] = index
	case "nz":
		header.HasNormals = true
		header.NormalIndices[2] = index
	case "red", "r":
		header.HasColors = true
		header.ColorIndices[0] = index
	case "green", "g":
		header.HasColors = true
		header.ColorIndices[1] = index
	case "blue", "b":
		header.HasColors = true
		header.ColorIndices[2] = index
	case "u", "s", "texture_u":
		header.HasTexCoords = true
		header.TexCoordIndices[0] = index
	case "v", "t", "texture_v":
		header.HasTexCoords = true
		header.TexCoordIndices[1] = index
	case "quality":
		header.HasQuality = true
		header.QualityIndex = index
	case "confidence":
		header.HasConfidence = true
		header.ConfidenceIndex = index
	case "intensity":
		header.HasIntensity = true
		header.IntensityIndex = index
	}
}

// parsePLYProperty parses one "property ..." header line, already split on
// whitespace with the leading "property" keyword removed.
func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) < 2 {
		return plyProperty{}, fmt.Errorf("invalid property definition")
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return plyProperty{}, fmt.Errorf("invalid list property definition")
		}
		return plyProperty{
			IsList:   true,
			ListType: parts[1],
			DataType: parts[2],
			Name:     parts[3],
		}, nil
	}
	return plyProperty{Type: parts[0], Name: parts[1]}, nil
}

// readBinaryLittleEndian reads the binary vertex and face blocks that follow
// a parsed header, decoding every optional vertex attribute the header
// declared.
func readBinaryLittleEndian(file *os.File, header *plyHeader) (*PLYData, error) {
	vertices := make([]core.Vec3, 0, header.VertexCount)
	faces := make([]int, 0, header.FaceCount*3)

	var normals []core.Vec3
	var colors []core.Vec3
	var texCoords []core.Vec2
	var quality, confidence, intensity []float64

	if header.HasNormals {
		normals = make([]core.Vec3, 0, header.VertexCount)
	}
	if header.HasColors {
		colors = make([]core.Vec3, 0, header.VertexCount)
	}
	if header.HasTexCoords {
		texCoords = make([]core.Vec2, 0, header.VertexCount)
	}
	if header.HasQuality {
		quality = make([]float64, 0, header.VertexCount)
	}
	if header.HasConfidence {
		confidence = make([]float64, 0, header.VertexCount)
	}
	if header.HasIntensity {
		intensity = make([]float64, 0, header.VertexCount)
	}

	// Vertex records are fixed-size (no lists allowed in the vertex element),
	// so the whole block can be read in one syscall and sliced per-vertex.
	vertexSize := plyVertexSize(header.VertexProps)
	vertexData := make([]byte, vertexSize*header.VertexCount)
	if _, err := io.ReadFull(file, vertexData); err != nil {
		return nil, fmt.Errorf("failed to read vertex data: %v", err)
	}

	for i := 0; i < header.VertexCount; i++ {
		offset := i * vertexSize
		v := parsePLYVertex(vertexData[offset:offset+vertexSize], header.VertexProps)

		vertices = append(vertices, core.NewVec3(float64(v.X), float64(v.Y), float64(v.Z)))
		if header.HasNormals {
			normals = append(normals, core.NewVec3(float64(v.NX), float64(v.NY), float64(v.NZ)))
		}
		if header.HasColors {
			colors = append(colors, core.NewVec3(float64(v.R)/255.0, float64(v.G)/255.0, float64(v.B)/255.0))
		}
		if header.HasTexCoords {
			texCoords = append(texCoords, core.NewVec2(float64(v.U), float64(v.V)))
		}
		if header.HasQuality {
			quality = append(quality, float64(v.Quality))
		}
		if header.HasConfidence {
			confidence = append(confidence, float64(v.Confidence))
		}
		if header.HasIntensity {
			intensity = append(intensity, float64(v.Intensity))
		}
	}

	// Face records are variable-size (the vertex_indices list), so they're
	// read one at a time through a buffered reader instead of in bulk.
	faceReader := bufio.NewReaderSize(file, 1024*1024)
	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if prop.IsList && prop.Name == "vertex_indices" {
				indices, err := readTriangleIndices(faceReader, prop)
				if err != nil {
					return nil, fmt.Errorf("face %d: %v", i, err)
				}
				faces = append(faces, indices[0], indices[1], indices[2])
				continue
			}
			if err := skipProperty(faceReader, prop); err != nil {
				return nil, fmt.Errorf("face %d: failed to skip property %s: %v", i, prop.Name, err)
			}
		}
	}

	return &PLYData{
		Vertices:         vertices,
		Faces:            faces,
		Normals:          normals,
		Colors:           colors,
		TexCoords:        texCoords,
		Quality:          quality,
		Confidence:       confidence,
		Intensity:        intensity,
		CustomFloatProps: make(map[string][]float64),
		CustomIntProps:   make(map[string][]int),
	}, nil
}

// readTriangleIndices reads one "list <count-type> <index-type> vertex_indices"
// entry and rejects anything but a triangle.
func readTriangleIndices(r *bufio.Reader, prop plyProperty) ([3]int, error) {
	var indices [3]int

	var vertexCount int
	switch prop.ListType {
	case "uchar", "uint8":
		var count uint8
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return indices, fmt.Errorf("reading vertex count (uchar): %v", err)
		}
		vertexCount = int(count)
	case "int", "int32":
		var count int32
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return indices, fmt.Errorf("reading vertex count (int32): %v", err)
		}
		vertexCount = int(count)
	default:
		return indices, fmt.Errorf("unsupported list count type: %s", prop.ListType)
	}
	if vertexCount != 3 {
		return indices, fmt.Errorf("only triangular faces supported, got %d vertices", vertexCount)
	}

	switch prop.DataType {
	case "int", "int32":
		var buf [3]int32
		if err := binary.Read(r, binary.LittleEndian, &buf); err != nil {
			return indices, fmt.Errorf("reading indices (int32): %v", err)
		}
		indices = [3]int{int(buf[0]), int(buf[1]), int(buf[2])}
	case "uint", "uint32":
		var buf [3]uint32
		if err := binary.Read(r, binary.LittleEndian, &buf); err != nil {
			return indices, fmt.Errorf("reading indices (uint32): %v", err)
		}
		indices = [3]int{int(buf[0]), int(buf[1]), int(buf[2])}
	default:
		return indices, fmt.Errorf("unsupported face index data type: %s", prop.DataType)
	}

	return indices, nil
}

// skipProperty discards one property's worth of bytes from r without
// decoding it, for face properties this loader doesn't expose.
func skipProperty(r *bufio.Reader, prop plyProperty) error {
	if !prop.IsList {
		return skipPLYScalar(r, prop.Type)
	}

	var count uint8
	switch prop.ListType {
	case "uchar", "uint8":
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported list count type: %s", prop.ListType)
	}
	for i := 0; i < int(count); i++ {
		if err := skipPLYScalar(r, prop.DataType); err != nil {
			return err
		}
	}
	return nil
}

// plyScalarSizes maps PLY primitive type names to their encoded byte width.
var plyScalarSizes = map[string]int{
	"float": 4, "float32": 4, "int": 4, "int32": 4, "uint": 4, "uint32": 4,
	"double": 8, "float64": 8,
	"short": 2, "int16": 2, "ushort": 2, "uint16": 2,
	"char": 1, "int8": 1, "uchar": 1, "uint8": 1,
}

func skipPLYScalar(r *bufio.Reader, dataType string) error {
	size, ok := plyScalarSizes[dataType]
	if !ok {
		return fmt.Errorf("unsupported data type: %s", dataType)
	}
	_, err := r.Discard(size)
	return err
}

// plyTypeSize returns the encoded byte width of a PLY scalar type name,
// defaulting to 4 for anything unrecognized.
func plyTypeSize(dataType string) int {
	if size, ok := plyScalarSizes[dataType]; ok {
		return size
	}
	return 4
}

// plyVertexSize sums the encoded byte width of every scalar vertex property;
// list properties can't appear in the vertex element so none are expected.
func plyVertexSize(props []plyProperty) int {
	size := 0
	for _, prop := range props {
		if prop.IsList {
			continue
		}
		size += plyTypeSize(prop.Type)
	}
	return size
}

// plyVertex holds every optional attribute parsePLYVertex knows how to
// decode for a single vertex record.
type plyVertex struct {
	X, Y, Z             float32
	NX, NY, NZ          float32
	R, G, B             uint8
	U, V                float32
	Quality, Confidence float32
	Intensity           float32
}

// parsePLYVertex decodes one fixed-size vertex record according to props,
// routing each named field to the matching plyVertex member.
func parsePLYVertex(data []byte, props []plyProperty) plyVertex {
	var v plyVertex

	offset := 0
	for _, prop := range props {
		if prop.IsList {
			continue
		}
		size, ok := plyScalarSizes[prop.Type]
		if !ok || offset+size > len(data) {
			break
		}
		buf := bytes.NewReader(data[offset : offset+size])

		switch prop.Type {
		case "float", "float32":
			var value float32
			if binary.Read(buf, binary.LittleEndian, &value) == nil {
				assignPLYFloatField(&v, prop.Name, value)
			}
		case "uchar", "uint8":
			var value uint8
			if binary.Read(buf, binary.LittleEndian, &value) == nil {
				switch prop.Name {
				case "red", "r":
					v.R = value
				case "green", "g":
					v.G = value
				case "blue", "b":
					v.B = value
				}
			}
		case "double", "float64":
			var value float64
			if binary.Read(buf, binary.LittleEndian, &value) == nil {
				assignPLYFloatField(&v, prop.Name, float32(value))
			}
		}

		offset += size
	}

	return v
}

// assignPLYFloatField routes a decoded float-typed property to its field on
// v by name; unrecognized names (custom per-file attributes) are dropped,
// matching this loader's scope of the known PLY vertex attributes.
func assignPLYFloatField(v *plyVertex, name string, value float32) {
	switch name {
	case "x":
		v.X = value
	case "y":
		v.Y = value
	case "z":
		v.Z = value
	case "nx":
		v.NX = value
	case "ny":
		v.NY = value
	case "nz":
		v.NZ = value
	case "u", "s", "texture_u":
		v.U = value
	case "v", "t", "texture_v":
		v.V = value
	case "quality":
		v.Quality = value
	case "confidence":
		v.Confidence = value
	case "intensity":
		v.Intensity = value
	}
}
