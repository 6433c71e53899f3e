// Command picturedemo records a scene into a picture, writes it to a .gpic
// file, reloads it and plays it back.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/gogpu/picture"
	"github.com/gogpu/picture/backend/dump"
	"github.com/gogpu/picture/backend/raster"
)

type options struct {
	Width   float64   `short:"W" long:"width" default:"800" description:"Recording width"`
	Height  float64   `short:"H" long:"height" default:"600" description:"Recording height"`
	Output  string    `short:"o" long:"output" default:"demo.png" description:"PNG output file (empty to skip)"`
	Picture string    `short:"p" long:"picture" default:"demo.gpic" description:"Serialized picture file"`
	Cull    []float64 `long:"cull" description:"Cull rect edge; repeat four times for left, top, right, bottom"`
	NoBBH   bool      `long:"no-bbh" description:"Cull by scanning ops instead of an R-tree"`
	Dump    bool      `short:"d" long:"dump" description:"Print the playback calls to stdout"`
	Verbose bool      `short:"v" long:"verbose" description:"Debug logging"`
}

func parseCmd() options {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	return opts
}

func main() {
	opts := parseCmd()

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	picture.SetLogger(logger)

	if err := run(opts, logger); err != nil {
		logger.Error("picturedemo failed", "err", err)
		os.Exit(1)
	}
}

func run(opts options, logger *slog.Logger) error {
	pic, err := record(opts)
	if err != nil {
		return err
	}
	defer pic.Close()

	logger.Info("recorded",
		"id", pic.UniqueID(),
		"cull", pic.CullRect(),
		"ops", pic.ApproximateOpCount(),
		"bytes", pic.ApproximateBytesUsed(),
		"bbh", pic.HasBBH())

	if err := save(pic, opts.Picture); err != nil {
		return err
	}
	loaded, err := load(opts.Picture)
	if err != nil {
		return err
	}
	defer loaded.Close()
	logger.Info("reloaded", "file", opts.Picture, "id", loaded.UniqueID(), "ops", loaded.ApproximateOpCount())

	if opts.Output != "" {
		b := raster.NewBackend()
		if err := loaded.Playback(b); err != nil {
			return err
		}
		if err := b.SavePNG(opts.Output); err != nil {
			return fmt.Errorf("write %s: %w", opts.Output, err)
		}
		logger.Info("rendered", "file", opts.Output, "width", b.Width(), "height", b.Height())
	}

	if opts.Dump {
		b := dump.NewBackend()
		if err := loaded.Playback(b); err != nil {
			return err
		}
		if _, err := b.WriteTo(os.Stdout); err != nil {
			return err
		}
	}

	s := picture.Stats()
	logger.Info("stats",
		"native_calls", s.NativeCalls,
		"live_recorders", s.LiveRecorders,
		"live_pictures", s.LivePictures)
	return nil
}

func record(opts options) (*picture.Picture, error) {
	rec := picture.NewRecorder(picture.WithBBH(!opts.NoBBH))
	defer rec.Close()

	bounds := picture.LTRB(0, 0, opts.Width, opts.Height)
	star := starPicture()
	defer star.Close()

	canvas := rec.BeginRecording(bounds)
	drawBackground(canvas, opts.Width, opts.Height)
	drawShapes(canvas)
	drawTransforms(canvas)
	drawPaths(canvas, star)
	canvas.DrawString("picture demo", 20, opts.Height-20, 24, picture.NewPaint(picture.White))

	switch len(opts.Cull) {
	case 0:
		return rec.FinishRecordingAsPicture(), nil
	case 4:
		c := opts.Cull
		return rec.FinishRecordingAsPictureWithCull(picture.LTRB(c[0], c[1], c[2], c[3])), nil
	default:
		return nil, fmt.Errorf("--cull needs 4 values, got %d", len(opts.Cull))
	}
}

func save(pic *picture.Picture, path string) error {
	f, err := os.Create(path) // #nosec G304 -- path supplied by the user
	if err != nil {
		return err
	}
	if _, err := pic.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func load(path string) (*picture.Picture, error) {
	f, err := os.Open(path) // #nosec G304 -- path supplied by the user
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return picture.Decode(f)
}

func drawBackground(c *picture.Canvas, w, h float64) {
	const steps = 100
	for i := range steps {
		t := float64(i) / steps
		y := h * t
		c.DrawRect(picture.XYWH(0, y, w, h/steps+1), picture.NewPaint(picture.RGB(0.1+t*0.4, 0.2+t*0.3, 0.4+t*0.2)))
	}
}

func drawShapes(c *picture.Canvas) {
	c.DrawCircle(150, 150, 60, picture.NewPaint(picture.RGBA(1, 0.3, 0.3, 0.8)))
	c.DrawCircle(200, 150, 60, picture.NewPaint(picture.RGBA(0.3, 1, 0.3, 0.8)))
	c.DrawCircle(175, 200, 60, picture.NewPaint(picture.RGBA(0.3, 0.3, 1, 0.8)))

	c.DrawRRect(picture.XYWH(350, 100, 120, 80), 15, 15, picture.NewPaint(picture.RGB(1, 0.8, 0)))
	c.DrawRect(picture.XYWH(350, 100, 120, 80), picture.NewStrokePaint(picture.White, 4))
}

func drawTransforms(c *picture.Canvas) {
	c.SaveLayerAlpha(picture.Rect{}, 0.8)
	for i := range 8 {
		c.Save()
		c.Translate(600, 150)
		c.Rotate(float64(i) * 45)
		c.DrawRect(picture.XYWH(-30, -30, 60, 60), picture.NewPaint(picture.Hex(palette[i])))
		c.Restore()
	}
	c.Restore()
}

var palette = [...]string{"#e6194b", "#f58231", "#ffe119", "#3cb44b", "#46f0f0", "#4363d8", "#911eb4", "#f032e6"}

func drawPaths(c *picture.Canvas, star *picture.Picture) {
	c.Save()
	c.Translate(150, 400)
	wave := picture.NewPath()
	wave.MoveTo(0, 0)
	wave.CubicTo(50, -50, 100, 50, 150, 0)
	wave.CubicTo(200, -30, 250, 30, 300, 0)
	stroke := picture.NewStrokePaint(picture.RGB(1, 0.5, 0), 6)
	stroke.Cap = picture.LineCapRound
	c.DrawPath(wave, stroke)
	c.Restore()

	for i, x := range []float64{550, 680} {
		m := picture.Translate(x, 400).Multiply(picture.Scale(1-0.3*float64(i), 1-0.3*float64(i)))
		c.DrawPicture(star, &m)
	}
}

// starPicture records a five-pointed star centered on the origin.
func starPicture() *picture.Picture {
	rec := picture.NewRecorder()
	defer rec.Close()

	const points, outerR, innerR = 5, 60.0, 30.0
	canvas := rec.BeginRecording(picture.LTRB(-outerR, -outerR, outerR, outerR))
	p := picture.NewPath()
	for i := range points * 2 {
		angle := float64(i) * math.Pi / points
		r := outerR
		if i%2 == 1 {
			r = innerR
		}
		x, y := r*math.Cos(angle-math.Pi/2), r*math.Sin(angle-math.Pi/2)
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()
	canvas.DrawPath(p, picture.NewPaint(picture.RGB(1, 1, 0)))
	return rec.FinishRecordingAsPicture()
}
