// Command tracktest runs segmentation and localization over still images and
// prints where the object was found, for checking a calibration offline.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"maglev-tracker/internal/calib"
	"maglev-tracker/internal/capture"
	"maglev-tracker/internal/locate"
	"maglev-tracker/internal/snapshot"
	"maglev-tracker/internal/vision"
	"maglev-tracker/pkg/colorutil"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"
)

type result struct {
	path  string
	w, h  int
	ball  locate.Ball
	found bool
}

func main() {
	colorStr := flag.String("color", "", "Object colour as r,g,b or #rrggbb")
	strategyStr := flag.String("strategy", "hsv", "Colour space: rgb or hsv")
	scalar := flag.Int("tol", 20, "RGB tolerance")
	hue := flag.Int("hue", 10, "Hue tolerance (0-180)")
	sat := flag.Int("sat", 60, "Saturation tolerance")
	val := flag.Int("val", 60, "Value tolerance")
	workers := flag.Int("workers", runtime.NumCPU(), "Images processed in parallel")
	outDir := flag.String("out", "", "Write annotated copies to this directory")
	flag.Parse()

	if *colorStr == "" || flag.NArg() == 0 {
		fmt.Println("Usage: tracktest -color r,g,b [-strategy hsv|rgb] [-tol 20] [-hue 10 -sat 60 -val 60] [-out dir] image...")
		os.Exit(1)
	}

	ref, err := colorutil.ParseColor(*colorStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bad colour: %v\n", err)
		os.Exit(1)
	}
	strategy, err := vision.ParseStrategy(*strategyStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	tolCell := calib.NewTolerance(calib.ToleranceValue{})
	tolCell.SetScalar(*scalar)
	tolCell.SetHue(*hue)
	tolCell.SetSaturation(*sat)
	tolCell.SetValue(*val)
	tol := tolCell.Load()

	fmt.Printf("Reference: %s (%v)\n", ref, colorutil.ToHSV(ref))
	fmt.Printf("Strategy: %s\n", strategy)
	if strategy == vision.StrategyRGB {
		fmt.Printf("Tolerance: %d\n", tol.Scalar)
	} else {
		fmt.Printf("Tolerance: H %d  S %d  V %d\n", tol.HSV.H, tol.HSV.S, tol.HSV.V)
	}

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
			os.Exit(1)
		}
	}

	paths := flag.Args()
	results := make([]result, len(paths))

	var g errgroup.Group
	g.SetLimit(*workers)
	for i, path := range paths {
		g.Go(func() error {
			r, err := track(path, strategy, ref, tol, *outDir)
			if err != nil {
				return errors.Wrap(err, path)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Tracking failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n%-40s %10s %10s %10s %8s\n", "Image", "Size", "X", "Y", "Regions")
	fmt.Println(strings.Repeat("-", 82))
	found := 0
	for _, r := range results {
		size := fmt.Sprintf("%dx%d", r.w, r.h)
		if !r.found {
			fmt.Printf("%-40s %10s %10s %10s %8d\n", filepath.Base(r.path), size, "-", "-", 0)
			continue
		}
		found++
		fmt.Printf("%-40s %10s %10.1f %10.1f %8d\n", filepath.Base(r.path), size, r.ball.X, r.ball.Y, r.ball.Regions)
	}

	fmt.Printf("\nTotal: object found in %d of %d images\n", found, len(results))
}

// track segments and localizes one image. Each call owns its own OpenCV state.
func track(path string, strategy vision.Strategy, ref colorutil.Color, tol calib.ToleranceValue, outDir string) (result, error) {
	r := result{path: path}

	still, err := capture.LoadStill(path)
	if err != nil {
		return r, err
	}
	defer still.Close()

	frame := gocv.NewMat()
	defer frame.Close()
	if err := still.Read(&frame); err != nil {
		return r, err
	}
	if err := vision.Normalize(&frame); err != nil {
		return r, err
	}
	r.w, r.h = frame.Cols(), frame.Rows()

	seg, err := vision.NewSegmenter(strategy)
	if err != nil {
		return r, err
	}
	defer seg.Close()

	mask := gocv.NewMat()
	defer mask.Close()
	if err := seg.Segment(frame, ref, tol, &mask); err != nil {
		return r, err
	}

	detector := vision.NewBlobDetector()
	defer detector.Close()
	r.ball, r.found, err = locate.New[gocv.Mat](detector).Locate(mask)
	if err != nil {
		return r, err
	}

	if outDir == "" {
		return r, nil
	}
	img, err := frame.ToImage()
	if err != nil {
		return r, errors.Wrap(err, "failed to convert frame")
	}
	var ball *locate.Ball
	if r.found {
		ball = &r.ball
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return r, snapshot.Save(filepath.Join(outDir, base+"-tracked.png"), img, ball)
}
