package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/beakerlab/beaker/internal/chem"
)

func main() {
	var (
		configFile = flag.String("config", "", "path to catalog JSON file")
		randomSeed = flag.Int64("random-seed", 0, "generate a random scenario from this seed instead of loading --config")
		ticks      = flag.Int("ticks", 1000, "number of ticks to run")
		tickLength = flag.Float64("tick-length", chem.DefaultTickLength, "simulated seconds per tick")
		envTemp    = flag.String("env-temp", "20", "environment temperature in Celsius, or 'none' for an isolated run")
	)
	flag.Parse()

	seedSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "random-seed" {
			seedSet = true
		}
	})

	if (*configFile != "") == seedSet {
		fmt.Fprintf(os.Stderr, "error: exactly one of --config or --random-seed is required\n")
		flag.Usage()
		os.Exit(1)
	}

	var (
		catalog *chem.Catalog
		seeds   []*chem.Matter
	)
	if *configFile != "" {
		cfg, err := chem.LoadCatalogConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading catalog: %v\n", err)
			os.Exit(1)
		}
		catalog, seeds, err = chem.BuildCatalogFromConfig(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error building catalog: %v\n", err)
			os.Exit(1)
		}
	} else {
		catalog, seeds = chem.GenerateScenario(*randomSeed, chem.DefaultScenarioOptions())
	}

	env, err := parseEnvTemp(*envTemp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	beaker := chem.NewBeaker("simulation", catalog)
	beaker.SetTickLength(*tickLength)
	beaker.SetEnvironment(env)
	for _, m := range seeds {
		beaker.AddMatter(m)
	}

	fired := 0
	for range *ticks {
		fired += len(beaker.Step())
	}

	printSummary(catalog.Name, *ticks, fired, beaker)
}

// parseEnvTemp turns the --env-temp flag into an environment temperature,
// where "none" means an isolated beaker.
func parseEnvTemp(v string) (*float64, error) {
	if v == "none" {
		return nil, nil
	}
	t, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid env-temp %q: expected a number or 'none'", v)
	}
	return &t, nil
}

func printSummary(catalogName string, ticks, fired int, beaker *chem.Beaker) {
	snapshot := beaker.Snapshot()

	fmt.Printf("Simulation finished (catalog=%s, ticks=%d, reactions fired=%d)\n", catalogName, ticks, fired)
	fmt.Println("Substances:")
	if len(snapshot.Contents) == 0 {
		fmt.Println("  (none)")
	}
	for _, st := range snapshot.Contents {
		fmt.Printf("  %s: %s at %.1f°C (%s)\n",
			st.Substance,
			humanize.SIWithDigits(st.Amount, 3, "mol"),
			st.Temperature,
			humanize.SIWithDigits(st.Mass*1000, 3, "g"))
	}
	fmt.Println()
	fmt.Println(chem.Describe(snapshot.Contents))
}
