// Command splotdemo renders a scatter plot headlessly and saves it as a
// PNG. It uses the CPU reference backend, so it runs anywhere.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"math/rand"
	"os"

	"github.com/gogpu/splot"
	"github.com/gogpu/splot/backend/soft"
	"github.com/gogpu/splot/gpudev"
)

func main() {
	var (
		width  = flag.Int("width", 800, "image width")
		height = flag.Int("height", 600, "image height")
		count  = flag.Int("n", 3000, "points per cluster")
		dims   = flag.Int("dims", 2, "2 or 3 dimensions")
		output = flag.String("output", "scatter.png", "output file")
		seed   = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	dev := soft.New()
	if err := dev.Init(); err != nil {
		log.Fatalf("Failed to init device: %v", err)
	}
	defer dev.Destroy()

	eng, err := splot.New(*width, *height,
		splot.WithDevice(dev),
		splot.WithPointSize(6),
	)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Dispose()

	if err := eng.SetPoints(clusters(*count, *dims, *seed)); err != nil {
		log.Fatalf("Failed to set points: %v", err)
	}

	if *dims == 3 {
		// Tip the camera off the default pose so depth is visible.
		eng.DragStart(splot.ButtonSecondary)
		eng.Drag(120, -60, splot.ButtonSecondary)
		eng.DragEnd(splot.ButtonSecondary)
	}
	if err := eng.Frame(1.0 / 60); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	if err := savePNG(dev, *width, *height, *output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	st := eng.Stats()
	log.Printf("Saved %s (%dx%d, %d points, backend %s)\n",
		*output, *width, *height, st.PointCount, st.Backend)
}

// clusters builds three labeled Gaussian blobs.
func clusters(n, dims int, seed int64) *splot.PointSet {
	rng := rand.New(rand.NewSource(seed))
	centers := [][3]float32{{-3, -2, 0}, {3, -1, 2}, {0, 3, -2}}
	names := []string{"setosa", "versicolor", "virginica"}

	ps := &splot.PointSet{
		Coords: make([]float32, 0, 3*n*dims),
		Labels: make([]string, 0, 3*n),
		Dims:   dims,
	}
	for c, center := range centers {
		for i := 0; i < n; i++ {
			ps.Coords = append(ps.Coords,
				center[0]+float32(rng.NormFloat64()),
				center[1]+float32(rng.NormFloat64()))
			if dims == 3 {
				ps.Coords = append(ps.Coords, center[2]+float32(rng.NormFloat64()))
			}
			ps.Labels = append(ps.Labels, names[c])
		}
	}
	return ps
}

// savePNG reads the presentation target back and writes it top-down.
func savePNG(dev gpudev.Device, w, h int, path string) error {
	pix, err := dev.ReadPixels(gpudev.DefaultTarget, 0, 0, w, h)
	if err != nil {
		return err
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		// Readback rows are bottom-up.
		src := (h - 1 - y) * w * 4
		copy(img.Pix[y*img.Stride:y*img.Stride+w*4], pix[src:src+w*4])
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
