package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// PoseToMat4 returns the homogeneous transform of a pose in the column vector convention:
// world = M * [x y z 1]^T, the translation is in the last column.
func PoseToMat4(p Pose) mgl64.Mat4 {
	rm := p.Orientation().RotationMatrix()
	pt := p.Point()
	m := mgl64.Ident4()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.Set(r, c, rm.At(r, c))
		}
	}
	m.Set(0, 3, pt.X)
	m.Set(1, 3, pt.Y)
	m.Set(2, 3, pt.Z)
	return m
}

// PoseToAffineMat4 returns the affine transform of a pose laid out in the row vector convention:
// world = [x y z 1] * M, the translation is in the last row. Index maps consume this layout.
func PoseToAffineMat4(p Pose) mgl64.Mat4 {
	rm := p.Orientation().RotationMatrix()
	pt := p.Point()
	m := mgl64.Ident4()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.Set(c, r, rm.At(r, c))
		}
	}
	m.Set(3, 0, pt.X)
	m.Set(3, 1, pt.Y)
	m.Set(3, 2, pt.Z)
	return m
}

// Mat4ToPose converts a column vector convention homogeneous transform back into a pose.
// Scale and shear in the upper 3x3 block are not supported.
func Mat4ToPose(m mgl64.Mat4) Pose {
	rm := &RotationMatrix{}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			rm.mat[r*3+c] = m.At(r, c)
		}
	}
	return NewPose(r3.Vector{X: m.At(0, 3), Y: m.At(1, 3), Z: m.At(2, 3)}, rm)
}

// TransformMat4Point applies a column vector convention transform to a point.
func TransformMat4Point(m mgl64.Mat4, pt r3.Vector) r3.Vector {
	v := m.Mul4x1(mgl64.Vec4{pt.X, pt.Y, pt.Z, 1})
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}
