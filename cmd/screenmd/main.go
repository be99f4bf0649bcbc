/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"

	"screenmd/internal/config"
	"screenmd/internal/crash"
	"screenmd/internal/entities"
	"screenmd/internal/fcpxml"
	"screenmd/internal/layout"
	applog "screenmd/internal/log"
	"screenmd/internal/profile"
	"screenmd/internal/render"
	"screenmd/internal/screenplay"
	"screenmd/internal/shotlist"
	"screenmd/internal/storage"
	"screenmd/internal/telemetry"
	"screenmd/internal/textmetrics"
	"screenmd/internal/version"
)

func usage() {
	fmt.Println("screenmd — screenplay markdown tool")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  screenmd version|-v|--version             Show version")
	fmt.Println("  screenmd convert <script.md> [flags]      Render paginated PDF or PNG pages")
	fmt.Println("  screenmd shotlist <script.md> [flags]     Derive the scene/shot list (csv, md, pdf)")
	fmt.Println("  screenmd entities <script.md> [flags]     Extract characters, locations, objects")
	fmt.Println("  screenmd fcpxml <script.md> [flags]       Export an FCPXML timeline")
	fmt.Println("  screenmd index <script.md> [flags]        (Re)build the workspace search index")
	fmt.Println("  screenmd search <query> [flags]           Search the workspace index")
	fmt.Println()
	fmt.Println("Run 'screenmd <command> -h' for command flags.")
}

func main() {
	applog.Init(applog.FromEnv())
	telemetry.InitDefault()
	l := applog.WithComponent("cli")
	defer crash.Recover("")

	args := os.Args
	if len(args) < 2 {
		usage()
		return
	}
	l.Debug("start", slog.String("cmd", args[1]))

	var err error
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("screenmd — screenplay markdown tool")
		fmt.Println(version.String())
		return
	case "convert":
		err = cmdConvert(args[2:])
	case "shotlist":
		err = cmdShotlist(args[2:])
	case "entities":
		err = cmdEntities(args[2:])
	case "fcpxml":
		err = cmdFCPXML(args[2:])
	case "index":
		err = cmdIndex(args[2:])
	case "search":
		err = cmdSearch(args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		l.Error("command failed", slog.String("cmd", args[1]), slog.Any("err", err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadScript reads and parses the script, applying config and profile flags.
func loadScript(path, cfgPath, profPath string) (*screenplay.Document, config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, cfg, err
	}
	if profPath != "" {
		p, err := profile.Load(profPath)
		if err != nil {
			return nil, cfg, err
		}
		if err := p.Apply(&cfg); err != nil {
			return nil, cfg, err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cfg, fmt.Errorf("read script: %w", err)
	}
	return screenplay.Parse(string(data)), cfg, nil
}

// provider builds the measuring provider from the configured font. With no
// font file the core Courier metrics apply; forFace requests a real face
// (needed for raster output) and falls back to the bundled Go Mono.
func provider(cfg config.Config, forFace bool) (textmetrics.Provider, *textmetrics.FaceProvider, error) {
	if cfg.Font.Regular != "" {
		reg, err := os.ReadFile(cfg.Font.Regular)
		if err != nil {
			return nil, nil, fmt.Errorf("read font: %w", err)
		}
		var bold []byte
		if cfg.Font.Bold != "" {
			if bold, err = os.ReadFile(cfg.Font.Bold); err != nil {
				return nil, nil, fmt.Errorf("read bold font: %w", err)
			}
		}
		fp, err := textmetrics.NewFaceProvider(reg, bold)
		if err != nil {
			return nil, nil, err
		}
		return fp, fp, nil
	}
	if forFace {
		fp, err := textmetrics.NewFaceProvider(gomono.TTF, gomonobold.TTF)
		if err != nil {
			return nil, nil, err
		}
		return fp, fp, nil
	}
	return textmetrics.CourierProvider{}, nil, nil
}

func pdfFonts(cfg config.Config) (render.PDFFonts, error) {
	f := render.PDFFonts{Family: cfg.Font.Family}
	if cfg.Font.Regular == "" {
		return f, nil
	}
	reg, err := os.ReadFile(cfg.Font.Regular)
	if err != nil {
		return f, fmt.Errorf("read font: %w", err)
	}
	f.Regular = reg
	if cfg.Font.Bold != "" {
		if f.Bold, err = os.ReadFile(cfg.Font.Bold); err != nil {
			return f, fmt.Errorf("read bold font: %w", err)
		}
	}
	return f, nil
}

func scriptTitle(path, flagTitle string) string {
	if flagTitle != "" {
		return flagTitle
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func cmdConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	out := fs.String("o", "", "output file (.pdf) or directory (png); default <script>.pdf")
	format := fs.String("format", "pdf", "output format: pdf or png")
	cfgPath := fs.String("config", "", "YAML config file")
	profPath := fs.String("profile", "", "JSON layout profile")
	title := fs.String("title", "", "page header title; default script file name")
	noTitle := fs.Bool("no-title", false, "omit the page header")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("convert requires a script file")
	}
	script := fs.Arg(0)

	doc, cfg, err := loadScript(script, *cfgPath, *profPath)
	if err != nil {
		return err
	}
	hdr := scriptTitle(script, *title)
	if *noTitle {
		hdr = ""
	}
	opts := layout.Options{
		Geometry: cfg.Geometry(),
		FontSize: cfg.Font.SizePt,
		Leading:  cfg.Leading,
		Title:    hdr,
	}

	switch *format {
	case "pdf":
		prov, _, err := provider(cfg, false)
		if err != nil {
			return err
		}
		pages, err := layout.Paginate(doc, prov, opts)
		if err != nil {
			return err
		}
		fonts, err := pdfFonts(cfg)
		if err != nil {
			return err
		}
		dst := *out
		if dst == "" {
			dst = strings.TrimSuffix(script, filepath.Ext(script)) + ".pdf"
		}
		f, err := os.Create(dst)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		if err := render.WritePDF(f, pages, opts.Geometry, fonts, hdr); err != nil {
			return err
		}
		telemetry.Event("convert", map[string]any{"format": "pdf", "pages": len(pages)})
		fmt.Printf("Wrote %d page(s) to %s\n", len(pages), dst)
		return nil
	case "png":
		prov, fp, err := provider(cfg, true)
		if err != nil {
			return err
		}
		pages, err := layout.Paginate(doc, prov, opts)
		if err != nil {
			return err
		}
		reg, err := fp.Face(textmetrics.StyleNormal, cfg.Font.SizePt)
		if err != nil {
			return err
		}
		boldFace := reg
		if fp.HasBold() {
			if boldFace, err = fp.Face(textmetrics.StyleBold, cfg.Font.SizePt); err != nil {
				return err
			}
		}
		surf, err := render.NewPNGSurface(opts.Geometry, reg, boldFace)
		if err != nil {
			return err
		}
		render.Paint(pages, surf)
		dir := *out
		if dir == "" {
			dir = strings.TrimSuffix(script, filepath.Ext(script)) + "_pages"
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		for i := range pages {
			name := filepath.Join(dir, fmt.Sprintf("page_%03d.png", i+1))
			f, err := os.Create(name)
			if err != nil {
				return fmt.Errorf("create page file: %w", err)
			}
			if err := surf.EncodePage(i, f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		}
		telemetry.Event("convert", map[string]any{"format": "png", "pages": len(pages)})
		fmt.Printf("Wrote %d page(s) to %s\n", len(pages), dir)
		return nil
	default:
		return fmt.Errorf("unknown format %q (pdf or png)", *format)
	}
}

func cmdShotlist(args []string) error {
	fs := flag.NewFlagSet("shotlist", flag.ExitOnError)
	out := fs.String("o", "", "output file; default stdout")
	format := fs.String("format", "", "output format: csv, md, or pdf (default from config)")
	cfgPath := fs.String("config", "", "YAML config file")
	profPath := fs.String("profile", "", "JSON layout profile")
	withEntities := fs.Bool("entities", false, "append the entity inventory")
	title := fs.String("title", "", "page header title (pdf only)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("shotlist requires a script file")
	}
	script := fs.Arg(0)

	doc, cfg, err := loadScript(script, *cfgPath, *profPath)
	if err != nil {
		return err
	}
	if *format == "" {
		*format = cfg.ShotList.Format
		if *format == "" {
			*format = "csv"
		}
	}
	rows := shotlist.Build(doc)
	var inv *entities.Inventory
	if *withEntities || (cfg.ShotList.IncludeEntities && *format == "pdf") {
		i := entities.Extract(doc, entityOptions(cfg))
		inv = &i
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	switch *format {
	case "csv":
		return shotlist.WriteCSV(w, rows, inv)
	case "md":
		return shotlist.WriteMarkdown(w, rows, inv)
	case "pdf":
		prov, _, err := provider(cfg, false)
		if err != nil {
			return err
		}
		pages, err := shotlist.LayoutPages(rows, inv, prov, shotlist.PageOptions{
			Geometry: cfg.Geometry(),
			Leading:  cfg.Leading,
			Title:    scriptTitle(script, *title) + " — Shot List",
		})
		if err != nil {
			return err
		}
		fonts, err := pdfFonts(cfg)
		if err != nil {
			return err
		}
		return render.WritePDF(w, pages, cfg.Geometry(), fonts, "Shot List")
	default:
		return fmt.Errorf("unknown format %q (csv, md, or pdf)", *format)
	}
}

func entityOptions(cfg config.Config) entities.Options {
	o := entities.Options{
		MinTokenLen:    cfg.Entities.MinTokenLen,
		UppercaseRatio: cfg.Entities.UppercaseRatio,
	}
	if len(cfg.Entities.Stoplist) > 0 {
		o.Stoplist = cfg.Entities.Stoplist
	}
	return o
}

func cmdEntities(args []string) error {
	fs := flag.NewFlagSet("entities", flag.ExitOnError)
	cfgPath := fs.String("config", "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("entities requires a script file")
	}
	doc, cfg, err := loadScript(fs.Arg(0), *cfgPath, "")
	if err != nil {
		return err
	}
	inv := entities.Extract(doc, entityOptions(cfg))
	printGroup := func(title string, es []entities.Entity) {
		fmt.Printf("%s:\n", title)
		for _, e := range entities.SortByCount(es) {
			fmt.Printf("  %-30s %4d  (first at element %d)\n", e.Name, e.Count, e.FirstIndex)
		}
	}
	printGroup("Characters", inv.Characters)
	printGroup("Locations", inv.Locations)
	printGroup("Objects / Props", inv.Objects)
	return nil
}

func cmdFCPXML(args []string) error {
	fs := flag.NewFlagSet("fcpxml", flag.ExitOnError)
	out := fs.String("o", "", "output file; default <script>.fcpxml")
	cfgPath := fs.String("config", "", "YAML config file")
	title := fs.String("title", "", "project title; default script file name")
	wpm := fs.Float64("wpm", 0, "words per minute override")
	fps := fs.Int("fps", 0, "frame rate override")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("fcpxml requires a script file")
	}
	script := fs.Arg(0)
	doc, cfg, err := loadScript(script, *cfgPath, "")
	if err != nil {
		return err
	}
	opts := fcpxml.Options{
		WPM:             cfg.Timing.WPM,
		FPS:             cfg.Timing.FPS,
		MinBlockSeconds: cfg.Timing.MinBlockSeconds,
		Title:           scriptTitle(script, *title),
	}
	if *wpm > 0 {
		opts.WPM = *wpm
	}
	if *fps > 0 {
		opts.FPS = *fps
	}
	dst := *out
	if dst == "" {
		dst = strings.TrimSuffix(script, filepath.Ext(script)) + ".fcpxml"
	}
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()
	if err := fcpxml.Write(f, doc, opts); err != nil {
		return err
	}
	fmt.Println("Wrote", dst)
	return nil
}

func cmdIndex(args []string) error {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	root := fs.String("root", ".", "workspace root for the index")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("index requires a script file")
	}
	script := fs.Arg(0)
	doc, _, err := loadScript(script, "", "")
	if err != nil {
		return err
	}
	abs, _ := filepath.Abs(*root)
	name := filepath.Base(script)
	if err := storage.Rebuild(context.Background(), abs, name, doc); err != nil {
		return err
	}
	fmt.Printf("Indexed %d block(s) of %s under %s\n", len(doc.Blocks), name, abs)
	return nil
}

func cmdSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	root := fs.String("root", ".", "workspace root for the index")
	character := fs.String("character", "", "restrict to a speaking character")
	scene := fs.String("scene", "", "restrict to scenes whose heading contains this")
	kinds := fs.String("kinds", "", "comma-separated block kinds (scene, shot, cue, dialogue, action, transition)")
	limit := fs.Int("limit", 0, "maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}
	q := storage.SearchQuery{
		Text:      strings.Join(fs.Args(), " "),
		Character: *character,
		Scene:     *scene,
		Limit:     *limit,
	}
	if *kinds != "" {
		for _, k := range strings.Split(*kinds, ",") {
			if k = strings.TrimSpace(k); k != "" {
				q.Kinds = append(q.Kinds, k)
			}
		}
	}
	abs, _ := filepath.Abs(*root)
	results, err := storage.Search(context.Background(), abs, q)
	if err != nil {
		return err
	}
	for _, r := range results {
		line := fmt.Sprintf("%s #%d [%s]", r.Script, r.Elem, r.Kind)
		if r.Scene != "" {
			line += " " + r.Scene
		}
		if r.Snippet != "" {
			line += ": " + r.Snippet
		}
		fmt.Println(line)
	}
	fmt.Printf("%d result(s)\n", len(results))
	return nil
}
