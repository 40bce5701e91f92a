package writhe

//go:generate hwygen -input $GOFILE -output . -targets avx2,fallback

import (
	"github.com/ajroetker/go-highway/hwy"
)

// BaseNorm2Batch computes the squared length of a set of vectors (SoA layout).
// dst[i] = x[i]*x[i] + y[i]*y[i] + z[i]*z[i]
func BaseNorm2Batch[T hwy.Floats](x, y, z []T, dst []T) {
	size := min(len(x), len(y), len(z), len(dst))

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			vx := hwy.Load(x[offset:])
			vy := hwy.Load(y[offset:])
			vz := hwy.Load(z[offset:])

			sum := hwy.Mul(vx, vx)
			sum = hwy.FMA(vy, vy, sum)
			sum = hwy.FMA(vz, vz, sum)

			hwy.Store(sum, dst[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)
			vx := hwy.MaskLoad(mask, x[offset:])
			vy := hwy.MaskLoad(mask, y[offset:])
			vz := hwy.MaskLoad(mask, z[offset:])

			sum := hwy.Mul(vx, vx)
			sum = hwy.FMA(vy, vy, sum)
			sum = hwy.FMA(vz, vz, sum)

			hwy.MaskStore(mask, sum, dst[offset:])
		},
	)
}
