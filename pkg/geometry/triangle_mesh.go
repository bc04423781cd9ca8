package geometry

import (
	"github.com/ekarpp/spuristo/pkg/accel"
	"github.com/ekarpp/spuristo/pkg/core"
)

// TriangleMesh represents a collection of triangles with efficient ray intersection.
// It builds an internal SAH kd-tree over its own triangles, the same
// acceleration structure pkg/scene builds over top-level shapes, so a
// ray spends O(log n) tests against a 10⁴-triangle mesh instead of a linear
// scan of every triangle.
type TriangleMesh struct {
	triangles []core.Shape  // Individual triangles as shapes
	tree      *accel.KDTree // kd-tree for fast per-triangle intersection
	bbox      core.AABB     // Overall bounding box
	material  core.Material // Default material (can be overridden per triangle)
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	Normals   []core.Vec3     // Optional per-vertex shading normals, indexed like vertices
	Materials []core.Material // Optional per-triangle materials
	Rotation  *core.Vec3      // Optional rotation to apply to vertices
	Center    *core.Vec3      // Optional center point for rotation
	VertexUVs []core.Vec2     // Optional per-vertex texture coordinates
}

// NewTriangleMesh creates a new triangle mesh from vertices and face indices
// vertices: array of 3D points
// faces: array of triangle indices (each group of 3 indices forms a triangle)
// material: default material for all triangles
// options: optional parameters (can be nil for basic mesh)
func NewTriangleMesh(vertices []core.Vec3, faces []int, material core.Material, options *TriangleMeshOptions) *TriangleMesh {
	if len(faces)%3 != 0 {
		panic("Face indices must be a multiple of 3")
	}

	numTriangles := len(faces) / 3

	// Validate options if provided
	if options != nil {
		if options.Normals != nil && len(options.Normals) != len(vertices) {
			panic("Number of normals must match number of vertices")
		}
		if options.Materials != nil && len(options.Materials) != numTriangles {
			panic("Number of materials must match number of triangles")
		}
		if options.VertexUVs != nil && len(options.VertexUVs) != len(vertices) {
			panic("Number of vertex UVs must match number of vertices")
		}
	}

	// Apply rotation if specified
	workingVertices := vertices
	if options != nil && options.Rotation != nil {
		workingVertices = make([]core.Vec3, len(vertices))
		for i, vertex := range vertices {
			// Translate to center, rotate, then translate back
			if options.Center != nil {
				vertex = vertex.Subtract(*options.Center)
			}
			vertex = rotateVertex(vertex, *options.Rotation)
			if options.Center != nil {
				vertex = vertex.Add(*options.Center)
			}
			workingVertices[i] = vertex
		}
	}

	// Normals are directions: rotate them (if a rotation was requested) but
	// never translate them, unlike vertex positions above.
	var workingNormals []core.Vec3
	if options != nil {
		workingNormals = options.Normals
	}
	if options != nil && options.Rotation != nil && workingNormals != nil {
		rotated := make([]core.Vec3, len(workingNormals))
		for i, n := range workingNormals {
			rotated[i] = rotateVertex(n, *options.Rotation).Normalize()
		}
		workingNormals = rotated
	}

	triangles := make([]core.Shape, numTriangles)

	// Create individual triangles
	for i := 0; i < numTriangles; i++ {
		i0 := faces[i*3]
		i1 := faces[i*3+1]
		i2 := faces[i*3+2]

		// Bounds check
		if i0 >= len(workingVertices) || i1 >= len(workingVertices) || i2 >= len(workingVertices) ||
			i0 < 0 || i1 < 0 || i2 < 0 {
			panic("Face index out of bounds")
		}

		// Determine material for this triangle
		triangleMaterial := material
		if options != nil && options.Materials != nil {
			triangleMaterial = options.Materials[i]
		}

		// Get vertex positions
		v0 := workingVertices[i0]
		v1 := workingVertices[i1]
		v2 := workingVertices[i2]

		// Create triangle with appropriate constructor based on available data
		var triangle core.Shape
		hasUVs := options != nil && options.VertexUVs != nil
		hasNormals := workingNormals != nil

		if hasUVs && hasNormals {
			// Both UVs and per-vertex shading normals provided
			uv0 := options.VertexUVs[i0]
			uv1 := options.VertexUVs[i1]
			uv2 := options.VertexUVs[i2]
			n0 := workingNormals[i0]
			n1 := workingNormals[i1]
			n2 := workingNormals[i2]
			triangle = NewTriangleWithVertexNormalsAndUVs(v0, v1, v2, uv0, uv1, uv2, n0, n1, n2, triangleMaterial)
		} else if hasUVs {
			// Only UVs provided
			uv0 := options.VertexUVs[i0]
			uv1 := options.VertexUVs[i1]
			uv2 := options.VertexUVs[i2]
			triangle = NewTriangleWithUVs(v0, v1, v2, uv0, uv1, uv2, triangleMaterial)
		} else if hasNormals {
			// Only per-vertex shading normals provided, smooth shading via
			// barycentric interpolation across the three vertices
			n0 := workingNormals[i0]
			n1 := workingNormals[i1]
			n2 := workingNormals[i2]
			triangle = NewTriangleWithVertexNormals(v0, v1, v2, n0, n1, n2, triangleMaterial)
		} else {
			// Neither UVs nor normals provided
			triangle = NewTriangle(v0, v1, v2, triangleMaterial)
		}
		triangles[i] = triangle
	}

	// Build a kd-tree for fast per-triangle intersection, the same
	// acceleration structure pkg/scene builds over top-level shapes.
	tree := accel.NewKDTree(triangles)

	// Calculate overall bounding box
	var bbox core.AABB
	if len(triangles) > 0 {
		bbox = triangles[0].BoundingBox()
		for i := 1; i < len(triangles); i++ {
			bbox = bbox.Union(triangles[i].BoundingBox())
		}
	}

	// Determine default material
	defaultMaterial := material
	if options != nil && options.Materials != nil && len(options.Materials) > 0 {
		defaultMaterial = options.Materials[0]
	}

	return &TriangleMesh{
		triangles: triangles,
		tree:      tree,
		bbox:      bbox,
		material:  defaultMaterial,
	}
}

// Hit tests if a ray intersects with any triangle in the mesh
func (tm *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	if tm.tree == nil {
		return nil, false
	}
	return tm.tree.Hit(ray, tMin, tMax)
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) BoundingBox() core.AABB {
	return tm.bbox
}

// GetTriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) GetTriangleCount() int {
	return len(tm.triangles)
}

// GetTriangles returns the individual triangles (for debugging or special operations)
func (tm *TriangleMesh) GetTriangles() []core.Shape {
	return tm.triangles
}

// rotateVertex applies rotation around the X, Y, then Z axes, delegating to
// core.Vec3.Rotate which both vertex positions and normals share.
func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	return vertex.Rotate(rotation)
}
