package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ironsheep/pov-bitmap-mcp/internal/config"
	"github.com/ironsheep/pov-bitmap-mcp/internal/imaging"
	"github.com/ironsheep/pov-bitmap-mcp/internal/ledmap"
	"github.com/ironsheep/pov-bitmap-mcp/internal/render"
)

// runConvert implements the one-shot "convert" command and returns the
// process exit code.
func runConvert(args []string, configPath string) int {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	var (
		cfgFile    = fs.String("config", configPath, "YAML config file with profiles")
		profile    = fs.String("profile", "", "settings profile name")
		mode       = fs.String("mode", "grid", "addressing scheme: grid or polar")
		resolution = fs.Int("resolution", 16, "grid side, or LED count in polar mode")
		divisions  = fs.Int("divisions", 150, "angular slices per rotation (polar)")
		threshold  = fs.Int("threshold", ledmap.DefaultThreshold, "luminance cutoff 0-255")
		invert     = fs.Bool("invert", false, "flip lit/unlit")
		working    = fs.Int("working-size", ledmap.DefaultWorkingSize, "polar sampling surface side")
		brightness = fs.Float64("brightness", 1, "polar LED color scale 0-1")
		lineShift  = fs.Int("line-shift", 0, "rotate polar output lines")
		filter     = fs.String("filter", imaging.DefaultFilter, "resample filter")
		format     = fs.String("format", "arduino", "output dialect: arduino or micropython")
		colors     = fs.Bool("colors", false, "emit polar LED color tables")
		order      = fs.String("order", "rgb", "color byte order: rgb or grb")
		output     = fs.String("o", "", "write listing to file instead of stdout")
		workers    = fs.Int("workers", 0, "parallel conversions (0 = GOMAXPROCS)")
	)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: pov-bitmap-mcp convert [flags] IMAGE...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	m, err := ledmap.ParseMode(*mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	st := ledmap.Settings{Mode: m}
	if *profile != "" {
		p, ok := cfg.Profile(*profile)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown profile: %s\n", *profile)
			return 2
		}
		st = p.Settings
	}

	// Explicit flags override the profile; without a profile every flag
	// applies with its default.
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	apply := func(name string) bool { return *profile == "" || set[name] }

	if apply("mode") {
		st.Mode = m
	}
	if apply("resolution") {
		st.Resolution = *resolution
	}
	if apply("divisions") && st.Mode == ledmap.ModePolar {
		st.Divisions = *divisions
	}
	if apply("threshold") {
		st.Threshold = *threshold
	}
	if apply("invert") {
		st.Invert = *invert
	}
	if apply("working-size") && st.Mode == ledmap.ModePolar {
		st.WorkingSize = *working
	}
	if apply("brightness") {
		st.Brightness = *brightness
	}
	if apply("line-shift") {
		st.LineShift = *lineShift
	}
	if apply("filter") {
		st.Filter = *filter
	}
	if err := st.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	f, err := render.ParseFormat(*format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if *workers == 0 {
		*workers = cfg.Workers
	}

	cache := imaging.NewImageCache()
	names := imaging.UniqueNames(fs.Args())
	items := make([]ledmap.BatchItem, fs.NArg())
	for i, path := range fs.Args() {
		img, err := cache.Load(path)
		items[i] = ledmap.BatchItem{Name: names[i], Image: img, Err: err}
	}

	results := ledmap.ConvertBatch(context.Background(), items, st, *workers)

	var converted []*ledmap.ConvertedImage
	failed := 0
	for i, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", fs.Arg(i), r.Err)
			failed++
			continue
		}
		converted = append(converted, r.Image)
	}
	if len(converted) == 0 {
		return 1
	}

	opts := render.Options{Format: f, WithColors: *colors, Order: render.ColorOrder(*order)}
	if *output == "" {
		if err := render.Code(os.Stdout, converted, opts); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	} else if err := writeListing(*output, converted, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// writeListing renders images into the file at path. A failed close is
// reported like a failed write.
func writeListing(path string, images []*ledmap.ConvertedImage, opts render.Options) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.Code(out, images, opts); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// runInitConfig writes the default configuration to the given path.
func runInitConfig(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: pov-bitmap-mcp init-config FILE")
		return 2
	}
	if _, err := os.Stat(args[0]); err == nil {
		fmt.Fprintf(os.Stderr, "%s already exists\n", args[0])
		return 1
	}
	if err := config.Save(args[0], config.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "write config: %v\n", err)
		return 1
	}
	fmt.Printf("wrote %s\n", args[0])
	return 0
}
