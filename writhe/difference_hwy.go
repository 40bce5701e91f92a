package writhe

//go:generate hwygen -input $GOFILE -output . -targets avx2,fallback

import (
	"github.com/ajroetker/go-highway/hwy"
)

// Batch Difference (Connecting Vectors)
// Every segment pair needs the four vectors between the endpoints of its two
// segments plus the two segment vectors. With the endpoints stored as columns
// (SoA layout) each of those is one lane-wise subtraction over the batch.

// BaseDifferenceBatch computes d = q - p for two sets of points (SoA layout).
// dx[i] = qx[i] - px[i], and likewise for y and z.
func BaseDifferenceBatch[T hwy.Floats](
	px, py, pz []T,
	qx, qy, qz []T,
	dx, dy, dz []T,
) {
	size := min(len(px), len(py), len(pz), len(qx), len(qy), len(qz), len(dx), len(dy), len(dz))

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			vPx := hwy.Load(px[offset:])
			vPy := hwy.Load(py[offset:])
			vPz := hwy.Load(pz[offset:])

			vQx := hwy.Load(qx[offset:])
			vQy := hwy.Load(qy[offset:])
			vQz := hwy.Load(qz[offset:])

			hwy.Store(hwy.Sub(vQx, vPx), dx[offset:])
			hwy.Store(hwy.Sub(vQy, vPy), dy[offset:])
			hwy.Store(hwy.Sub(vQz, vPz), dz[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)

			vPx := hwy.MaskLoad(mask, px[offset:])
			vPy := hwy.MaskLoad(mask, py[offset:])
			vPz := hwy.MaskLoad(mask, pz[offset:])
			vQx := hwy.MaskLoad(mask, qx[offset:])
			vQy := hwy.MaskLoad(mask, qy[offset:])
			vQz := hwy.MaskLoad(mask, qz[offset:])

			hwy.MaskStore(mask, hwy.Sub(vQx, vPx), dx[offset:])
			hwy.MaskStore(mask, hwy.Sub(vQy, vPy), dy[offset:])
			hwy.MaskStore(mask, hwy.Sub(vQz, vPz), dz[offset:])
		},
	)
}
