package writhe

//go:generate hwygen -input $GOFILE -output . -targets avx2,fallback

import (
	"github.com/ajroetker/go-highway/hwy"
)

// BaseSumBatch returns the sum of a column of per-pair contributions.
// The lane partial sums are added in a different order than a sequential
// loop would, so the result may differ from it in the last bits.
func BaseSumBatch[T hwy.Floats](xs []T) T {
	vSum := hwy.Zero[T]()

	hwy.ProcessWithTail[T](len(xs),
		func(offset int) {
			vSum = hwy.Add(vSum, hwy.Load(xs[offset:]))
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)
			// Masked-out lanes load as zero and leave the sum unchanged.
			vSum = hwy.Add(vSum, hwy.MaskLoad(mask, xs[offset:]))
		},
	)

	return hwy.ReduceSum(vSum)
}
