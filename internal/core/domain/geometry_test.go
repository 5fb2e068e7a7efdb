package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.keyframe.sh/onion/internal/core/domain"
	"go.keyframe.sh/onion/internal/mathutil"
)

func TestGeometryValidate(t *testing.T) {
	positions := []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

	tests := []struct {
		name    string
		geo     domain.Geometry
		wantErr bool
	}{
		{
			name: "valid",
			geo: domain.Geometry{
				Positions: positions,
				Normals:   []mathutil.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
				Triangles: []uint32{0, 1, 2},
				Edges:     []uint32{0, 1, 1, 2, 2, 0},
			},
		},
		{
			name: "triangle indices not multiple of 3",
			geo: domain.Geometry{
				Positions: positions,
				Triangles: []uint32{0, 1},
			},
			wantErr: true,
		},
		{
			name: "edge indices not multiple of 2",
			geo: domain.Geometry{
				Positions: positions,
				Edges:     []uint32{0},
			},
			wantErr: true,
		},
		{
			name: "triangle index out of range",
			geo: domain.Geometry{
				Positions: positions,
				Triangles: []uint32{0, 1, 7},
			},
			wantErr: true,
		},
		{
			name: "normal count mismatch",
			geo: domain.Geometry{
				Positions: positions,
				Normals:   []mathutil.Vec3{{0, 0, 1}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.geo.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidGeometry)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGeometryApproxBytes(t *testing.T) {
	g := domain.Geometry{
		Positions: make([]mathutil.Vec3, 10),
		Normals:   make([]mathutil.Vec3, 10),
		Triangles: make([]uint32, 6),
		Edges:     make([]uint32, 4),
	}

	assert.Equal(t, 10*24+10*24+6*4+4*4, g.ApproxBytes())
}
