package main

import (
	"fmt"
	"io"
	"log"
	"math/rand"

	"github.com/akhenakh/writhe/pdb"
	"github.com/akhenakh/writhe/perturb"
	"github.com/akhenakh/writhe/segdump"
	"github.com/akhenakh/writhe/writhe"
)

// run reads the structure in fileName and writes the chain totals to w.
func run(cfg config, fileName string, w io.Writer, logger *log.Logger) error {
	opts, err := cfg.aggregatorOptions()
	if err != nil {
		return err
	}
	readOpts := pdb.DefaultReadOptions()
	readOpts.Logger = logger
	s, err := pdb.Read(fileName, readOpts)
	if err != nil {
		return err
	}
	chains := s.WritheChains()

	if cfg.Dump != "" {
		if err := segdump.WriteFile(cfg.Dump, s.Source, chains...); err != nil {
			return fmt.Errorf("dump: %w", err)
		}
	}

	agg := writhe.NewAggregator(opts)
	logger.Printf("%s: %d chains, %v, %v execution, %v", s.Source, len(chains), opts.Formulation, opts.Execution, opts.Policy)

	rng := rand.New(rand.NewSource(cfg.Seed))
	for _, c := range chains {
		total := agg.Total(c)
		fmt.Fprintf(w, "%s\t%s\t%d\t%.6f\n", s.Source, c.ID, c.Len(), total)
		if cfg.Perturb <= 0 || c.Len() == 0 {
			continue
		}
		residues := perturb.PickResidues(rng, c.Len(), cfg.Perturb)
		pc, changed, err := perturb.Apply(c, perturb.Random(rng, residues, cfg.Magnitude))
		if err != nil {
			return err
		}
		before := agg.TotalInvolving(c, changed)
		after := agg.TotalInvolving(pc, changed)
		fmt.Fprintf(w, "%s\t%s\tperturbed\t%.6f\t%d segments\t%+.6f\n",
			s.Source, c.ID, agg.Total(pc), len(changed), after-before)
	}

	if cfg.Linking {
		for i := range chains {
			for j := i + 1; j < len(chains); j++ {
				fmt.Fprintf(w, "%s\t%s-%s\tlinking\t%.6f\n",
					s.Source, chains[i].ID, chains[j].ID, agg.Linking(chains[i], chains[j]))
			}
		}
	}
	return nil
}
