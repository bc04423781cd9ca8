package loaders

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/ekarpp/spuristo/pkg/core"
)

// GLTFData mirrors PLYData/OBJData's shape: a flat, 0-indexed triangle
// list ready for geometry.NewTriangleMesh. Every mesh primitive in the
// document is appended into one combined vertex/face list; materials,
// textures and the node hierarchy are not interpreted here, matching how
// caustic-glass and dragon scenes assign their own core.Material after
// the raw geometry is loaded.
type GLTFData struct {
	Vertices []core.Vec3
	Faces    []int
	Normals  []core.Vec3
}

// LoadGLTF loads a .gltf or .glb file via its embedded or relative-path
// buffers and flattens every triangle primitive in the document.
func LoadGLTF(filename string) (*GLTFData, error) {
	doc, err := gltf.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open glTF file: %v", err)
	}

	data := &GLTFData{}
	haveNormals := false

	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}

			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}

			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("failed to read positions: %v", err)
			}

			var normals [][3]float32
			if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
				normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
				if err != nil {
					return nil, fmt.Errorf("failed to read normals: %v", err)
				}
			}

			baseVertex := len(data.Vertices)
			for i, p := range positions {
				data.Vertices = append(data.Vertices, core.NewVec3(float64(p[0]), float64(p[1]), float64(p[2])))
				if i < len(normals) {
					n := normals[i]
					data.Normals = append(data.Normals, core.NewVec3(float64(n[0]), float64(n[1]), float64(n[2])))
					haveNormals = true
				} else {
					data.Normals = append(data.Normals, core.Vec3{})
				}
			}

			if prim.Indices == nil {
				for i := 0; i+2 < len(positions); i += 3 {
					data.Faces = append(data.Faces, baseVertex+i, baseVertex+i+1, baseVertex+i+2)
				}
				continue
			}

			indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("failed to read indices: %v", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				data.Faces = append(data.Faces,
					baseVertex+int(indices[i]),
					baseVertex+int(indices[i+1]),
					baseVertex+int(indices[i+2]))
			}
		}
	}

	if !haveNormals {
		data.Normals = nil
	}

	return data, nil
}
