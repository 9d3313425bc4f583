package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/councilmodel/mtfp/internal/calculation"
	"github.com/councilmodel/mtfp/internal/compare"
	"github.com/councilmodel/mtfp/internal/config"
	"github.com/councilmodel/mtfp/internal/domain"
	"github.com/councilmodel/mtfp/internal/output"
	"github.com/councilmodel/mtfp/internal/server"
	"github.com/councilmodel/mtfp/internal/store"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var logger *zap.Logger

func initSettings() {
	viper.SetDefault("listen_addr", ":8080")
	viper.SetDefault("simulations", 500)
	viper.SetDefault("stress_seed", 1)
	viper.SetDefault("log_level", "info")

	viper.SetConfigName("mtfp")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("MTFP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	// A missing settings file is fine; defaults and env cover everything.
	_ = viper.ReadInConfig()
}

func initLogger() error {
	cfg := zap.NewProductionConfig()
	if viper.GetString("log_level") == "debug" {
		cfg = zap.NewDevelopmentConfig()
	}
	var err error
	logger, err = cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	return nil
}

// loadScenario reads the scenario file named by args[0], or falls back to
// the built-in baseline plan.
func loadScenario(args []string) (*domain.Scenario, error) {
	if len(args) == 0 {
		return domain.DefaultScenario(), nil
	}
	return config.NewInputParser().LoadFromFile(args[0])
}

// decimalFlag reads a float64 flag as a decimal. The error matters: a
// misnamed flag would otherwise read as zero.
func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	v, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("reading flag %s: %w", name, err)
	}
	return decimal.NewFromFloat(v), nil
}

func newEngine() *calculation.Engine {
	engine := calculation.NewEngine()
	engine.SetLogger(logger.Sugar())
	return engine
}

var rootCmd = &cobra.Command{
	Use:   "mtfp",
	Short: "Medium-term financial projection engine",
	Long:  "Five-year budget projection, sensitivity analysis, break-even solving and stress testing for a medium-term financial plan",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initSettings()
		return initLogger()
	},
}

var projectCmd = &cobra.Command{
	Use:   "project [scenario-file]",
	Short: "Run the five-year projection",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := loadScenario(args)
		if err != nil {
			return err
		}
		engine := newEngine()
		rows := engine.Project(scenario)

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "csv":
			data, err := output.ProjectionCSV(rows)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
		default:
			fmt.Print(output.ConsoleProjection(rows))
			fmt.Println()
			fmt.Print(output.ConsoleWaterfall(calculation.Waterfall(rows, scenario)))
		}
		return nil
	},
}

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity [scenario-file]",
	Short: "Report year-1 gap sensitivity to each driver",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := loadScenario(args)
		if err != nil {
			return err
		}
		fmt.Print(output.ConsoleSensitivities(newEngine().DriverSensitivities(scenario)))
		return nil
	},
}

var breakevenCmd = &cobra.Command{
	Use:   "breakeven [scenario-file]",
	Short: "Solve the break-even council tax increase",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := loadScenario(args)
		if err != nil {
			return err
		}
		engine := newEngine()
		if rate := engine.SolveCouncilTaxIncrease(scenario); rate != nil {
			fmt.Printf("Break-even council tax increase: %s%%\n", rate.StringFixed(4))
		} else {
			fmt.Println("No council tax increase in [0%, 5%] closes the year-1 gap")
		}
		fmt.Printf("Additional savings to close year-1 gap: %s\n",
			output.FormatMoney(engine.SolveAdditionalSavings(scenario)))
		return nil
	},
}

var stressCmd = &cobra.Command{
	Use:   "stress [scenario-file]",
	Short: "Run the seeded Monte Carlo stress test",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := loadScenario(args)
		if err != nil {
			return err
		}
		params := domain.StressParameters{
			Seed:        uint32(viper.GetUint("stress_seed")),
			Simulations: viper.GetInt("simulations"),
		}
		for _, sigma := range []struct {
			flag string
			dst  *decimal.Decimal
		}{
			{"inflation-sigma", &params.InflationSigma},
			{"demand-sigma", &params.DemandSigma},
			{"pay-sigma", &params.PaySigma},
			{"council-tax-sigma", &params.CouncilTaxSigma},
		} {
			v, err := decimalFlag(cmd, sigma.flag)
			if err != nil {
				return err
			}
			*sigma.dst = v
		}
		if seed, err := cmd.Flags().GetUint32("seed"); err == nil && cmd.Flags().Changed("seed") {
			params.Seed = seed
		}
		if sims, err := cmd.Flags().GetInt("simulations"); err == nil && cmd.Flags().Changed("simulations") {
			params.Simulations = sims
		}
		fmt.Print(output.ConsoleStress(newEngine().RunStressTest(scenario, params)))
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [scenario-file]",
	Short: "Compare the plan against built-in what-if variants",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := loadScenario(args)
		if err != nil {
			return err
		}
		engine := compare.NewEngine(newEngine())

		if list, _ := cmd.Flags().GetBool("list"); list {
			for _, name := range engine.TemplateNames() {
				fmt.Println(name)
			}
			return nil
		}

		with, _ := cmd.Flags().GetStringSlice("with")
		set, err := engine.Compare(scenario, with)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "csv":
			out, err := compare.CSVFormatter{}.Format(set)
			if err != nil {
				return err
			}
			fmt.Print(out)
		default:
			fmt.Print(compare.TableFormatter{}.Format(set))
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [scenario-file]",
	Short: "Export the projection as CSV or a workbook",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := loadScenario(args)
		if err != nil {
			return err
		}
		engine := newEngine()
		rows := engine.Project(scenario)

		outPath, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")

		var data []byte
		switch format {
		case "csv":
			data, err = output.ProjectionCSV(rows)
		case "xlsx":
			withMeta, _ := cmd.Flags().GetBool("metadata")
			var meta *output.ExportMetadata
			if withMeta {
				summary := engine.RunStressTest(scenario, domain.StressParameters{
					Seed:        uint32(viper.GetUint("stress_seed")),
					Simulations: viper.GetInt("simulations"),
				})
				meta = &output.ExportMetadata{Scenario: scenario, Stress: &summary}
			}
			data, err = output.BuildWorkbook(rows, meta).Bytes()
		default:
			return fmt.Errorf("unsupported export format: %s", format)
		}
		if err != nil {
			return err
		}

		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		logger.Info("export written", zap.String("path", outPath), zap.Int("bytes", len(data)))
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the projection API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := viper.GetString("listen_addr")
		if flagAddr, _ := cmd.Flags().GetString("addr"); cmd.Flags().Changed("addr") {
			addr = flagAddr
		}
		srv := server.New(newEngine(), store.NewMemoryStore(), logger)
		return srv.ListenAndServe(addr)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mtfp %s (commit %s, built %s)\n", version, commit, date)
		if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
			fmt.Println(bi.Main.Path)
		}
	},
}

func init() {
	projectCmd.Flags().String("format", "table", "output format: table, csv")

	stressCmd.Flags().Uint32("seed", 1, "stress test seed")
	stressCmd.Flags().Int("simulations", 500, "number of simulations")
	stressCmd.Flags().Float64("inflation-sigma", 1.0, "inflation std dev (pp)")
	stressCmd.Flags().Float64("demand-sigma", 1.5, "demand growth std dev (pp)")
	stressCmd.Flags().Float64("pay-sigma", 0.75, "pay award std dev (pp)")
	stressCmd.Flags().Float64("council-tax-sigma", 0.5, "council tax std dev (pp)")

	compareCmd.Flags().StringSlice("with",
		[]string{"freeze-council-tax", "max-council-tax", "savings-slippage"},
		"what-if templates to compare against")
	compareCmd.Flags().String("format", "table", "output format: table, csv")
	compareCmd.Flags().Bool("list", false, "list available templates and exit")

	exportCmd.Flags().String("out", "mtfp-export.xlsx", "output file path")
	exportCmd.Flags().String("format", "xlsx", "export format: xlsx, csv")
	exportCmd.Flags().Bool("metadata", true, "include scenario metadata sheets")

	serveCmd.Flags().String("addr", ":8080", "listen address")

	rootCmd.AddCommand(projectCmd, sensitivityCmd, breakevenCmd, stressCmd, compareCmd, exportCmd, serveCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
