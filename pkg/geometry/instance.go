package geometry

import (
	"math"

	"github.com/ekarpp/spuristo/pkg/core"
)

// mat3 is a 3x3 linear transform, the rotation/scale half of an Instance's
// affine transform. Translation is tracked separately since normals must
// never see it.
type mat3 struct {
	m [3][3]float64
}

func identityMat3() mat3 {
	return mat3{m: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

func scaleMat3(x, y, z float64) mat3 {
	return mat3{m: [3][3]float64{{x, 0, 0}, {0, y, 0}, {0, 0, z}}}
}

func rotateXMat3(r float64) mat3 {
	c, s := math.Cos(r), math.Sin(r)
	return mat3{m: [3][3]float64{{1, 0, 0}, {0, c, -s}, {0, s, c}}}
}

func rotateYMat3(r float64) mat3 {
	c, s := math.Cos(r), math.Sin(r)
	return mat3{m: [3][3]float64{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}}
}

func rotateZMat3(r float64) mat3 {
	c, s := math.Cos(r), math.Sin(r)
	return mat3{m: [3][3]float64{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}}
}

// Mul returns a*b, the linear map that applies b first, then a.
func (a mat3) Mul(b mat3) mat3 {
	var out mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.m[i][j] = a.m[i][0]*b.m[0][j] + a.m[i][1]*b.m[1][j] + a.m[i][2]*b.m[2][j]
		}
	}
	return out
}

func (a mat3) MulVec(v core.Vec3) core.Vec3 {
	return core.NewVec3(
		a.m[0][0]*v.X+a.m[0][1]*v.Y+a.m[0][2]*v.Z,
		a.m[1][0]*v.X+a.m[1][1]*v.Y+a.m[1][2]*v.Z,
		a.m[2][0]*v.X+a.m[2][1]*v.Y+a.m[2][2]*v.Z,
	)
}

func (a mat3) Transpose() mat3 {
	var out mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.m[j][i] = a.m[i][j]
		}
	}
	return out
}

// Inverse returns the matrix inverse via the adjugate/determinant, good
// enough for the combinations of rotation, scale and translation an
// Instance ever builds up.
func (a mat3) Inverse() mat3 {
	m := a.m
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])

	invDet := 1.0 / det
	var out mat3
	out.m[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) * invDet
	out.m[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * invDet
	out.m[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * invDet
	out.m[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) * invDet
	out.m[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * invDet
	out.m[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * invDet
	out.m[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) * invDet
	out.m[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * invDet
	out.m[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * invDet
	return out
}

// Instance wraps a Shape with an affine transform (translate, scale,
// rotate), applying it transparently at Hit/BoundingBox time so every
// concrete primitive stays definable in its own canonical local space.
type Instance struct {
	object core.Shape

	linear    mat3
	translate core.Vec3

	invLinear    mat3
	invTranslate core.Vec3
	normalMat    mat3

	bbox core.AABB
}

// NewInstance wraps object with the identity transform. Chain Translate,
// Scale, RotateX/Y/Z to build up a world placement.
func NewInstance(object core.Shape) *Instance {
	return newInstanceWithTransform(object, identityMat3(), core.Vec3{})
}

func newInstanceWithTransform(object core.Shape, linear mat3, translate core.Vec3) *Instance {
	invLinear := linear.Inverse()
	inst := &Instance{
		object:       object,
		linear:       linear,
		translate:    translate,
		invLinear:    invLinear,
		invTranslate: invLinear.MulVec(translate).Negate(),
		normalMat:    invLinear.Transpose(),
	}
	inst.bbox = inst.computeBoundingBox()
	return inst
}

// compose builds the transform that applies op (linear, translate) after
// the instance's current transform, i.e. new_world(p) = op(old_world(p)).
func (inst *Instance) compose(opLinear mat3, opTranslate core.Vec3) *Instance {
	combinedLinear := opLinear.Mul(inst.linear)
	combinedTranslate := opLinear.MulVec(inst.translate).Add(opTranslate)
	return newInstanceWithTransform(inst.object, combinedLinear, combinedTranslate)
}

// Translate applies a translation after the instance's current transform.
func (inst *Instance) Translate(x, y, z float64) *Instance {
	return inst.compose(identityMat3(), core.NewVec3(x, y, z))
}

// Scale applies a non-uniform scale after the instance's current transform.
func (inst *Instance) Scale(x, y, z float64) *Instance {
	return inst.compose(scaleMat3(x, y, z), core.Vec3{})
}

// RotateX applies a rotation of r radians around the X axis after the
// instance's current transform.
func (inst *Instance) RotateX(r float64) *Instance {
	return inst.compose(rotateXMat3(r), core.Vec3{})
}

// RotateY applies a rotation of r radians around the Y axis after the
// instance's current transform.
func (inst *Instance) RotateY(r float64) *Instance {
	return inst.compose(rotateYMat3(r), core.Vec3{})
}

// RotateZ applies a rotation of r radians around the Z axis after the
// instance's current transform.
func (inst *Instance) RotateZ(r float64) *Instance {
	return inst.compose(rotateZMat3(r), core.Vec3{})
}

// ToOrigin recenters the instance so its bounding box center sits at the
// world origin, useful right after wrapping a mesh that wasn't authored
// around (0,0,0).
func (inst *Instance) ToOrigin() *Instance {
	center := inst.bbox.Center()
	return inst.Translate(-center.X, -center.Y, -center.Z)
}

func (inst *Instance) computeBoundingBox() core.AABB {
	local := inst.object.BoundingBox()
	corners := [8]core.Vec3{
		core.NewVec3(local.Min.X, local.Min.Y, local.Min.Z),
		core.NewVec3(local.Min.X, local.Min.Y, local.Max.Z),
		core.NewVec3(local.Min.X, local.Max.Y, local.Min.Z),
		core.NewVec3(local.Min.X, local.Max.Y, local.Max.Z),
		core.NewVec3(local.Max.X, local.Min.Y, local.Min.Z),
		core.NewVec3(local.Max.X, local.Min.Y, local.Max.Z),
		core.NewVec3(local.Max.X, local.Max.Y, local.Min.Z),
		core.NewVec3(local.Max.X, local.Max.Y, local.Max.Z),
	}
	for i, c := range corners {
		corners[i] = inst.linear.MulVec(c).Add(inst.translate)
	}
	return core.NewAABBFromPoints(corners[:]...)
}

// BoundingBox implements core.Shape.
func (inst *Instance) BoundingBox() core.AABB {
	return inst.bbox
}

// Hit implements core.Shape. The inner object lives in local space, so the
// ray is carried there by the inverse transform rather than transforming
// the object itself.
func (inst *Instance) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	localRay := core.NewRay(
		inst.invLinear.MulVec(ray.Origin).Add(inst.invTranslate),
		inst.invLinear.MulVec(ray.Direction),
	)

	hit, ok := inst.object.Hit(localRay, tMin, tMax)
	if !ok {
		return nil, false
	}

	hit.Point = ray.At(hit.T)
	hit.Normal = inst.normalMat.MulVec(hit.Normal).Normalize()
	return hit, true
}
