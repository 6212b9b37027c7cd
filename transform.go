package collider

import (
	"github.com/chewxy/math32"
	dmat "github.com/flywave/go3d/float64/mat4"
	"github.com/flywave/go3d/float64/vec4"
	"github.com/flywave/go3d/quaternion"
	"github.com/flywave/go3d/vec3"
	"github.com/qmuntal/gltf"
)

var identityMatrix = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// Transform is a local transform as authored: translation, rotation
// (x, y, z, w) and non-uniform scale.
type Transform struct {
	Translation vec3.T
	Rotation    quaternion.T
	Scale       vec3.T
}

func IdentityTransform() Transform {
	return Transform{
		Rotation: quaternion.T{0, 0, 0, 1},
		Scale:    vec3.T{1, 1, 1},
	}
}

// NodeTransform resolves the local transform of a glTF node. A node matrix
// that is neither zero nor identity wins over TRS and is decomposed. Zero
// rotation and zero scale are treated as unset.
func NodeTransform(nd *gltf.Node) Transform {
	if nd.Matrix != identityMatrix && nd.Matrix != ([16]float32{}) {
		return matrixTransform(nd.Matrix)
	}
	tr := IdentityTransform()
	tr.Translation = vec3.T(nd.Translation)
	if nd.Rotation != ([4]float32{}) {
		tr.Rotation = quaternion.T(nd.Rotation)
	}
	if nd.Scale != ([3]float32{}) {
		tr.Scale = vec3.T(nd.Scale)
	}
	return tr
}

func matrixTransform(m [16]float32) Transform {
	mat := toMat(m)
	position, rotation, scale := dmat.Decompose(mat)
	return Transform{
		Translation: vec3.T{float32(position[0]), float32(position[1]), float32(position[2])},
		Rotation:    quaternion.T{float32(rotation[0]), float32(rotation[1]), float32(rotation[2]), float32(rotation[3])},
		Scale:       vec3.T{float32(scale[0]), float32(scale[1]), float32(scale[2])},
	}
}

func toMat(mat [16]float32) *dmat.T {
	m := &dmat.T{}
	m[0] = vec4.T{float64(mat[0]), float64(mat[1]), float64(mat[2]), float64(mat[3])}
	m[1] = vec4.T{float64(mat[4]), float64(mat[5]), float64(mat[6]), float64(mat[7])}
	m[2] = vec4.T{float64(mat[8]), float64(mat[9]), float64(mat[10]), float64(mat[11])}
	m[3] = vec4.T{float64(mat[12]), float64(mat[13]), float64(mat[14]), float64(mat[15])}
	return m
}

// Apply maps a point from local space into the parent space: scale, then
// rotate, then translate.
func (t *Transform) Apply(p vec3.T) vec3.T {
	v := vec3.T{p[0] * t.Scale[0], p[1] * t.Scale[1], p[2] * t.Scale[2]}
	v = rotate(&t.Rotation, v)
	return vec3.Add(&v, &t.Translation)
}

// rotate computes v' = v + 2w(q x v) + 2 q x (q x v) with q normalized.
func rotate(q *quaternion.T, v vec3.T) vec3.T {
	n := math32.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if n == 0 {
		return v
	}
	u := vec3.T{q[0] / n, q[1] / n, q[2] / n}
	w := q[3] / n

	uv := vec3.Cross(&u, &v)
	uuv := vec3.Cross(&u, &uv)
	return vec3.T{
		v[0] + 2*(w*uv[0]+uuv[0]),
		v[1] + 2*(w*uv[1]+uuv[1]),
		v[2] + 2*(w*uv[2]+uuv[2]),
	}
}
