package engine

import "math"

const minTargetQuality = 1

// estimateQuality predicts a quality level likely to land near the
// target size, assuming output size scales roughly with quality^(1/0.6).
func estimateQuality(maxQuality, currentBytes, targetBytes int) int {
	if currentBytes == 0 || targetBytes == 0 {
		return maxQuality
	}

	ratio := float64(targetBytes) / float64(currentBytes)
	if ratio < 0.05 {
		ratio = 0.05
	}
	if ratio > 1 {
		ratio = 1
	}

	predicted := int(math.Round(float64(maxQuality) * math.Pow(ratio, 0.6)))
	return clamp(predicted, 1, maxQuality)
}

// searchToTarget binary-searches quality for the largest encoding that
// fits targetBytes, seeded by estimateQuality and capped at six probes.
// When nothing fits, the smallest encoding seen wins.
func searchToTarget(maxQuality, targetBytes int, encode func(quality int) ([]byte, error)) ([]byte, error) {
	maxQuality = clamp(maxQuality, 1, 100)
	minQuality := minTargetQuality
	if maxQuality < minQuality {
		minQuality = maxQuality
	}

	best, err := encode(maxQuality)
	if err != nil {
		return nil, err
	}
	if len(best) <= targetBytes {
		return best, nil
	}

	lo, hi := minQuality, maxQuality
	smallest := best
	var bestUnder []byte

	if est := estimateQuality(maxQuality, len(best), targetBytes); est > minQuality && est < maxQuality {
		hi = est
	}

	for iterations := 0; lo <= hi && iterations < 6; iterations++ {
		mid := (lo + hi) / 2

		out, err := encode(mid)
		if err != nil {
			return nil, err
		}
		if len(out) < len(smallest) {
			smallest = out
		}

		if len(out) <= targetBytes {
			bestUnder = out
			lo = mid + 1
		} else {
			if mid == 0 {
				break
			}
			hi = mid - 1
		}
	}

	if bestUnder != nil {
		return bestUnder, nil
	}
	return smallest, nil
}
