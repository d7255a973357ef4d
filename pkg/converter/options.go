package converter

import (
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// DefaultVersion is written into the conversion info screen of every
// converted project.
const DefaultVersion = "1.1"

// DefaultInfoScreen names the marker screen added to converted projects.
const DefaultInfoScreen = "_DO_NOT_DELETE_ConvertedFromAI1"

// Options control a conversion run.
//
// InFile           – legacy project archive (.zip), or a single .blk/.scm file
// OutDir           – output directory
// OutFile          – output filename; derived from InFile when empty
// ReportFile       – conversion report manifest; no report is kept when empty
// CatalogFiles     – extra component catalogs merged over the built-in one
// InfoScreen       – name of the marker screen added to the project
// ConverterVersion – version recorded in the marker screen
// Screen           – screen name used in diagnostics for single-file runs
type Options struct {
	InFile           string   `json:"in_file,omitempty" yaml:"in_file,omitempty" toml:"in_file,omitempty" mapstructure:"in_file,omitempty"`
	OutDir           string   `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	OutFile          string   `json:"out_file,omitempty" yaml:"out_file,omitempty" toml:"out_file,omitempty" mapstructure:"out_file,omitempty"`
	ReportFile       string   `json:"report_file,omitempty" yaml:"report_file,omitempty" toml:"report_file,omitempty" mapstructure:"report_file,omitempty"`
	CatalogFiles     []string `json:"catalog_files,omitempty" yaml:"catalog_files,omitempty" toml:"catalog_files,omitempty" mapstructure:"catalog_files,omitempty"`
	InfoScreen       string   `json:"info_screen,omitempty" yaml:"info_screen,omitempty" toml:"info_screen,omitempty" mapstructure:"info_screen,omitempty"`
	ConverterVersion string   `json:"converter_version,omitempty" yaml:"converter_version,omitempty" toml:"converter_version,omitempty" mapstructure:"converter_version,omitempty"`
	Screen           string   `json:"screen,omitempty" yaml:"screen,omitempty" toml:"screen,omitempty" mapstructure:"screen,omitempty"`
}

func NewOptions() *Options {
	return &Options{
		OutDir:           ".",
		InfoScreen:       DefaultInfoScreen,
		ConverterVersion: DefaultVersion,
	}
}

// Normalize fills defaults and derives OutFile and Screen from InFile.
func (o *Options) Normalize() error {
	if o.InFile == "" {
		return errors.New("no input file")
	}
	if len(o.OutDir) == 0 {
		o.OutDir = "."
	}
	if strings.Contains(o.OutDir, ".") {
		o.OutDir, _ = filepath.Abs(o.OutDir)
	}
	ext := filepath.Ext(o.InFile)
	base := strings.TrimSuffix(filepath.Base(o.InFile), ext)
	if len(o.OutFile) == 0 {
		o.OutFile = base + outputExt(ext)
	}
	if len(o.Screen) == 0 {
		o.Screen = base
	}
	if len(o.InfoScreen) == 0 {
		o.InfoScreen = DefaultInfoScreen
	}
	if len(o.ConverterVersion) == 0 {
		o.ConverterVersion = DefaultVersion
	}
	for i, f := range o.CatalogFiles {
		o.CatalogFiles[i] = strings.TrimSpace(f)
	}
	return nil
}

// OutPath is the full path of the output file.
func (o *Options) OutPath() string {
	return filepath.Clean(filepath.Join(o.OutDir, o.OutFile))
}

func outputExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".zip":
		return ".aia"
	case ".blk":
		return ".bky"
	default:
		return ext
	}
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInFile(f string) Option           { return func(o *Options) { o.InFile = f } }
func WithOutDir(d string) Option           { return func(o *Options) { o.OutDir = d } }
func WithOutFile(f string) Option          { return func(o *Options) { o.OutFile = f } }
func WithReportFile(f string) Option       { return func(o *Options) { o.ReportFile = f } }
func WithInfoScreen(s string) Option       { return func(o *Options) { o.InfoScreen = s } }
func WithConverterVersion(v string) Option { return func(o *Options) { o.ConverterVersion = v } }
func WithScreen(s string) Option           { return func(o *Options) { o.Screen = s } }
func WithCatalogFiles(files ...string) Option {
	return func(o *Options) {
		for _, f := range files {
			o.CatalogFiles = append(o.CatalogFiles, strings.TrimSpace(f))
		}
	}
}
