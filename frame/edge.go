package frame

// Hysteresis thresholds applied to the L1 gradient magnitude in edge mode.
const (
	LowThreshold  = 80
	HighThreshold = 150
)

// Fixed-point BT.601 luma weights, scaled by 1<<14.
const (
	lumaR     = 4899
	lumaG     = 9617
	lumaB     = 1868
	lumaShift = 14
	lumaRound = 1 << (lumaShift - 1)
)

// Luminance converts a 4-channel frame to one 8-bit sample per pixel.
func Luminance(in []byte, width, height int) []byte {
	n := width * height
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		o := i * Channels
		out[i] = byte((lumaR*int(in[o]) + lumaG*int(in[o+1]) + lumaB*int(in[o+2]) + lumaRound) >> lumaShift)
	}
	return out
}

const (
	pixNone = iota
	pixWeak
	pixEdge
)

// DetectEdges runs a double-threshold gradient edge detector over a
// single-channel image and returns a map of 0 (no edge) and 255 (edge).
//
// Gradients come from a 3x3 Sobel operator with replicated borders. Pixels
// that are not a local maximum along the quantised gradient direction are
// suppressed. Magnitudes above high are edges; magnitudes above low are edges
// only when 8-connected to another edge.
func DetectEdges(lum []byte, width, height int, low, high int) []byte {
	n := width * height
	gx := make([]int, n)
	gy := make([]int, n)
	mag := make([]int, n)

	at := func(x, y int) int {
		return int(lum[clamp(y, height)*width+clamp(x, width)])
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			tl, tc, tr := at(x-1, y-1), at(x, y-1), at(x+1, y-1)
			ml, mr := at(x-1, y), at(x+1, y)
			bl, bc, br := at(x-1, y+1), at(x, y+1), at(x+1, y+1)

			dx := (tr + 2*mr + br) - (tl + 2*ml + bl)
			dy := (bl + 2*bc + br) - (tl + 2*tc + tr)
			i := y*width + x
			gx[i], gy[i] = dx, dy
			mag[i] = abs(dx) + abs(dy)
		}
	}

	magAt := func(x, y int) int {
		if x < 0 || x >= width || y < 0 || y >= height {
			return 0
		}
		return mag[y*width+x]
	}

	label := make([]uint8, n)
	stack := make([]int, 0, 64)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			m := mag[i]
			if m <= low {
				continue
			}

			var a, b int
			ax, ay := abs(gx[i]), abs(gy[i])
			switch {
			case ay*1000 <= ax*414: // within 22.5° of horizontal gradient
				a, b = magAt(x-1, y), magAt(x+1, y)
			case ay*1000 >= ax*2414: // within 22.5° of vertical gradient
				a, b = magAt(x, y-1), magAt(x, y+1)
			case (gx[i] < 0) == (gy[i] < 0):
				a, b = magAt(x-1, y-1), magAt(x+1, y+1)
			default:
				a, b = magAt(x+1, y-1), magAt(x-1, y+1)
			}
			if m <= a || m < b {
				continue
			}

			if m > high {
				label[i] = pixEdge
				stack = append(stack, i)
			} else {
				label[i] = pixWeak
			}
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				j := ny*width + nx
				if label[j] == pixWeak {
					label[j] = pixEdge
					stack = append(stack, j)
				}
			}
		}
	}

	out := make([]byte, n)
	for i, l := range label {
		if l == pixEdge {
			out[i] = 255
		}
	}
	return out
}

// clamp replicates border pixels for out-of-range indices.
func clamp(index, size int) int {
	if index < 0 {
		return 0
	}
	if index >= size {
		return size - 1
	}
	return index
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
