// Command overfit fits polynomials of increasing degree to noisy samples of the parabola
// -(x+1)(x-5) and reports training, validation and extrapolation error for each degree
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aouyang1/go-polyfit"
	"github.com/aouyang1/go-polyfit/dataset"
	"github.com/goccy/go-json"
)

var ErrInvalidDegrees = errors.New("invalid degree list")

type config struct {
	seed       uint64
	degrees    string
	solver     string
	configPath string
	plotPath   string
	reportPath string
	verbose    bool

	// flags given on the command line, which override a config file
	set map[string]bool
}

func parseFlags(args []string) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("overfit", flag.ContinueOnError)
	fs.Uint64Var(&cfg.seed, "seed", polyfit.DefaultSeed, "seed of the random stream used to draw samples")
	fs.StringVar(&cfg.degrees, "degrees", "", "comma separated polynomial degrees to fit, defaults to 1,2,3,4,5,6")
	fs.StringVar(&cfg.solver, "solver", "", "fit solver, qr or gradient")
	fs.StringVar(&cfg.configPath, "config", "", "json file of experiment options, flags override its values")
	fs.StringVar(&cfg.plotPath, "plot", "", "html file to write fit and error charts to")
	fs.StringVar(&cfg.reportPath, "report", "", "json file to write the experiment model to")
	fs.BoolVar(&cfg.verbose, "v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		cfg.set[f.Name] = true
	})
	return cfg, nil
}

func parseDegrees(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	degrees := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		d, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%q, %w", p, ErrInvalidDegrees)
		}
		degrees = append(degrees, d)
	}
	if len(degrees) == 0 {
		return nil, fmt.Errorf("%q, %w", s, ErrInvalidDegrees)
	}
	return degrees, nil
}

func loadOptions(cfg *config) (*polyfit.Options, error) {
	opt := polyfit.NewDefaultOptions()
	if cfg.configPath != "" {
		bytes, err := os.ReadFile(cfg.configPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read config, %w", err)
		}
		// fields missing from the file keep their defaults
		if err := json.Unmarshal(bytes, opt); err != nil {
			return nil, fmt.Errorf("unable to decode config, %w", err)
		}
	}

	if cfg.set["seed"] {
		opt.Seed = cfg.seed
	}
	if cfg.set["degrees"] {
		degrees, err := parseDegrees(cfg.degrees)
		if err != nil {
			return nil, err
		}
		opt.Degrees = degrees
	}
	if cfg.set["solver"] {
		opt.Solver = cfg.solver
	}
	return opt, nil
}

func run(args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	opt, err := loadOptions(cfg)
	if err != nil {
		return err
	}

	e, err := polyfit.New(dataset.Parabola, opt)
	if err != nil {
		return err
	}
	if _, err := e.Run(); err != nil {
		return err
	}

	m, err := e.Model()
	if err != nil {
		return err
	}
	if err := m.TablePrint(os.Stdout, "", "  "); err != nil {
		return err
	}

	if cfg.reportPath != "" {
		bytes, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to encode report, %w", err)
		}
		if err := os.WriteFile(cfg.reportPath, bytes, 0o644); err != nil {
			return fmt.Errorf("unable to write report, %w", err)
		}
		slog.Info("wrote report", "path", cfg.reportPath)
	}

	if cfg.plotPath != "" {
		file, err := os.Create(cfg.plotPath)
		if err != nil {
			return fmt.Errorf("unable to create plot file, %w", err)
		}
		defer file.Close()
		if err := e.PlotFit(file); err != nil {
			return fmt.Errorf("unable to plot fit, %w", err)
		}
		slog.Info("wrote plot", "path", cfg.plotPath)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("overfit failed", "error", err)
		os.Exit(1)
	}
}
