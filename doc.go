// Package splot is a GPU scatter-plot rendering and interaction engine
// for the GoGPU ecosystem.
//
// splot renders large point sets (PCA/UMAP projections, embedding maps,
// prediction scatters) in 2D and 3D with real-time hover and click picking,
// an orbit camera, and continuous/categorical color encoding. Picking is
// resolved through an off-screen render pass that encodes each point's
// sample index as a unique RGB color.
//
// Basic usage:
//
//	eng, err := splot.New(800, 600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Dispose()
//
//	eng.SetPoints(&splot.PointSet{
//	    Coords: coords, // flat []float32, 2 or 3 values per point
//	    Dims:   2,
//	})
//	eng.Frame(1.0 / 60)
//
// Rendering requires a device from the backend registry. The wgpu backend
// drives a real GPU through github.com/gogpu/wgpu; the soft backend is a
// CPU reference device used for testing and headless environments. Import
// a backend package for its side effect of registering itself:
//
//	import _ "github.com/gogpu/splot/backend/soft"
//
// Selection state may live in an external store shared across several
// engine instances (cross-chart highlighting); see [Store] and [LocalStore].
package splot
