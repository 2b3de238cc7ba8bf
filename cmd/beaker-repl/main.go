package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/beakerlab/beaker/internal/chem"
)

const (
	heatingTemperature = 400.0
	coolingTemperature = 0.0
)

func main() {
	var (
		configFile = flag.String("config", "", "path to catalog JSON file (default: built-in iron and sulfur demo)")
		randomSeed = flag.Int64("random-seed", 0, "generate a random scenario from this seed instead of loading --config")
		tickLength = flag.Float64("tick", chem.DefaultTickLength, "simulated seconds per tick")
		envTemp    = flag.String("env", "20", "starting environment temperature in Celsius, or 'none'")
	)
	flag.Parse()

	seedSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "random-seed" {
			seedSet = true
		}
	})

	var (
		catalog *chem.Catalog
		seeds   []*chem.Matter
		err     error
	)
	switch {
	case *configFile != "":
		var cfg chem.CatalogConfig
		cfg, err = chem.LoadCatalogConfig(*configFile)
		if err == nil {
			catalog, seeds, err = chem.BuildCatalogFromConfig(cfg)
		}
	case seedSet:
		catalog, seeds = chem.GenerateScenario(*randomSeed, chem.DefaultScenarioOptions())
	default:
		catalog, seeds, err = demoCatalog()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading catalog: %v\n", err)
		os.Exit(1)
	}

	env, err := parseEnvTemp(*envTemp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	beaker := chem.NewBeaker("repl", catalog)
	beaker.SetTickLength(*tickLength)
	beaker.SetEnvironment(env)
	for _, m := range seeds {
		beaker.AddMatter(m)
	}

	fmt.Printf("catalog %q loaded, type 'help' for commands\n", catalog.Name)
	r := &repl{beaker: beaker, out: os.Stdout}
	r.loop(os.Stdin)
}

// demoCatalog builds the classic iron and sulfur synthesis: both solids sit
// inert at room temperature and combine into iron sulfide once heated past
// 100 degrees.
func demoCatalog() (*chem.Catalog, []*chem.Matter, error) {
	fe := chem.NewElement("Fe", 56)
	s := chem.NewElement("S", 32)

	iron := chem.NewSubstance("Fe", chem.NewFormula(map[*chem.Element]int{fe: 1}, 0), 7800).
		WithPhase(chem.PhaseSolid).
		WithHeatTransfer(1000).
		WithColor("black")
	sulfur := chem.NewSubstance("S", chem.NewFormula(map[*chem.Element]int{s: 1}, 0), 2300).
		WithPhase(chem.PhaseSolid).
		WithHeatTransfer(100).
		WithColor("yellow")
	ironSulfide := chem.NewSubstance("FeS", chem.NewFormula(map[*chem.Element]int{fe: 1, s: 1}, 0), 5000).
		WithPhase(chem.PhaseSolid).
		WithHeatTransfer(500).
		WithColor("black")

	reaction, err := chem.BalanceReaction("iron sulfide synthesis",
		chem.WindowRate(1, 100, math.Inf(1)),
		iron, sulfur, ironSulfide)
	if err != nil {
		return nil, nil, err
	}

	catalog := chem.NewCatalog("iron and sulfur").
		WithElements(fe, s).
		WithSubstances(iron, sulfur, ironSulfide).
		WithReactions(reaction)

	seeds := []*chem.Matter{
		chem.NewMatter(iron, 10),
		chem.NewMatter(sulfur, 10),
	}
	return catalog, seeds, nil
}

func parseEnvTemp(v string) (*float64, error) {
	if v == "none" {
		return nil, nil
	}
	t, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid env %q: expected a number or 'none'", v)
	}
	return &t, nil
}

// repl is one interactive session over a beaker
type repl struct {
	beaker *chem.Beaker
	out    io.Writer
}

var commandNames = []string{
	"run", "tick", "heating", "cooling", "display",
	"add", "reactions", "env", "help", "stop",
}

func (r *repl) loop(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, ">>> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if quit := r.dispatch(fields[0], fields[1:]); quit {
			return
		}
	}
}

// dispatch executes one command, returning true when the session should end
func (r *repl) dispatch(cmd string, args []string) bool {
	switch cmd {
	case "run":
		r.run(args)
	case "tick":
		r.tick(args)
	case "heating":
		r.toggleEnvironment("heating", heatingTemperature)
	case "cooling":
		r.toggleEnvironment("cooling", coolingTemperature)
	case "display":
		r.display()
	case "add":
		r.add(args)
	case "reactions":
		r.reactions()
	case "env":
		r.env(args)
	case "help":
		r.help()
	case "stop":
		return true
	default:
		if suggestion := suggestCommand(cmd); suggestion != "" {
			fmt.Fprintf(r.out, "unknown command %q (did you mean %q?)\n", cmd, suggestion)
		} else {
			fmt.Fprintf(r.out, "unknown command %q (try \"help\")\n", cmd)
		}
	}
	return false
}

// run advances the beaker by a span of simulated seconds
func (r *repl) run(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: run <seconds>")
		return
	}
	seconds, err := strconv.ParseFloat(args[0], 64)
	if err != nil || seconds <= 0 {
		fmt.Fprintln(r.out, "usage: run <seconds>, with a positive number of simulated seconds")
		return
	}

	n := int(seconds / r.beaker.TickLength())
	fired := 0
	for range n {
		fired += len(r.beaker.Step())
	}
	fmt.Fprintf(r.out, "advanced %d ticks (%g s simulated), %d reaction firings\n",
		n, float64(n)*r.beaker.TickLength(), fired)
}

// tick advances the beaker by whole ticks, default one
func (r *repl) tick(args []string) {
	n := 1
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed <= 0 {
			fmt.Fprintln(r.out, "usage: tick [n], with a positive tick count")
			return
		}
		n = parsed
	}
	fired := 0
	for range n {
		fired += len(r.beaker.Step())
	}
	fmt.Fprintf(r.out, "advanced %d tick(s), %d reaction firings\n", n, fired)
}

// toggleEnvironment flips the environment between ambient and a target
// temperature, announcing the change the way a lab bench burner would
func (r *repl) toggleEnvironment(name string, target float64) {
	env := r.beaker.Environment()
	if env != nil && *env == target {
		fmt.Fprintf(r.out, "stop %s\n", name)
		ambient := chem.AmbientTemperature
		r.beaker.SetEnvironment(&ambient)
		return
	}
	fmt.Fprintf(r.out, "start %s\n", name)
	r.beaker.SetEnvironment(&target)
}

func (r *repl) display() {
	snapshot := r.beaker.Snapshot()
	if env := snapshot.Environment; env != nil {
		fmt.Fprintf(r.out, "tick %d, clock %gs, environment %g°C\n", snapshot.Tick, snapshot.Clock, *env)
	} else {
		fmt.Fprintf(r.out, "tick %d, clock %gs, isolated\n", snapshot.Tick, snapshot.Clock)
	}
	for _, st := range snapshot.Contents {
		fmt.Fprintf(r.out, "  %s [%s]: %.4g mol at %.1f°C\n", st.Substance, st.Formula, st.Amount, st.Temperature)
	}
	fmt.Fprintln(r.out, chem.Describe(snapshot.Contents))
}

func (r *repl) add(args []string) {
	if len(args) < 2 || len(args) > 3 {
		fmt.Fprintln(r.out, "usage: add <substance> <amount> [temperature]")
		return
	}
	sub, ok := r.beaker.Catalog().Substance(args[0])
	if !ok {
		fmt.Fprintf(r.out, "unknown substance %q\n", args[0])
		return
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil || amount <= 0 {
		fmt.Fprintln(r.out, "amount must be a positive number of moles")
		return
	}

	m := chem.NewMatter(sub, amount)
	if len(args) == 3 {
		temp, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			fmt.Fprintln(r.out, "temperature must be a number")
			return
		}
		m = m.WithTemperature(temp)
	}
	r.beaker.AddMatter(m)
	fmt.Fprintf(r.out, "added %g mol of %s\n", amount, sub)
}

func (r *repl) reactions() {
	list := r.beaker.Catalog().Reactions()
	if len(list) == 0 {
		fmt.Fprintln(r.out, "no reactions in this catalog")
		return
	}
	for _, reaction := range list {
		fmt.Fprintf(r.out, "  %s (energy %g J/mol)\n", reaction, reaction.ChemicalEnergy())
	}
}

func (r *repl) env(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: env <temperature|none>")
		return
	}
	env, err := parseEnvTemp(args[0])
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	r.beaker.SetEnvironment(env)
	if env != nil {
		fmt.Fprintf(r.out, "environment set to %g°C\n", *env)
	} else {
		fmt.Fprintln(r.out, "environment removed, beaker is isolated")
	}
}

func (r *repl) help() {
	fmt.Fprint(r.out, `commands:
  run <seconds>              advance by simulated seconds
  tick [n]                   advance by whole ticks (default 1)
  heating                    toggle the environment between ambient and 400°C
  cooling                    toggle the environment between ambient and 0°C
  display                    show beaker contents and an observer summary
  add <substance> <amount> [temperature]
                             add matter from the catalog
  reactions                  list the catalog's reactions
  env <temperature|none>     set or remove the environment temperature
  help                       show this help
  stop                       leave the session
`)
}

// suggestCommand returns the closest command name within an edit-distance
// budget scaled to the candidate's length, or "" when nothing is close.
func suggestCommand(input string) string {
	best := ""
	bestDist := 0
	for _, cand := range commandNames {
		dist := levenshtein.ComputeDistance(input, cand)
		if dist > levenshteinLimit(len(cand)) {
			continue
		}
		if best == "" || dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	return best
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
