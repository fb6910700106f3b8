package main

import (
	"fmt"

	"petbot/internal/domain/decay"

	"github.com/spf13/cobra"
)

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Corre un tick de decaimiento ahora, sin esperar al cron",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		sched, err := decay.New(a.repo, decay.Options{
			Schedule: a.cfg.DecaySchedule,
			Step:     a.cfg.DecayStep,
			Logger:   a.log,
		})
		if err != nil {
			return err
		}

		res, err := sched.Tick(cmd.Context())
		fmt.Printf("scanned=%d updated=%d failed=%d\n", res.Scanned, res.Updated, res.Failed)
		return err
	},
}
