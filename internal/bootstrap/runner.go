package bootstrap

import (
	"context"
	"fmt"
	"log"
)

// Stage is one named step of the startup sequence.
type Stage struct {
	Name string
	Run  func(ctx context.Context) error
}

// Runner executes startup stages strictly in order, stopping at the first
// failure. The order matters: the database must answer before migrations run,
// and migrations must finish before the server accepts traffic.
type Runner struct {
	stages []Stage
	ran    []string
}

func NewRunner() *Runner {
	return &Runner{}
}

func (r *Runner) Add(name string, run func(ctx context.Context) error) {
	r.stages = append(r.stages, Stage{Name: name, Run: run})
}

func (r *Runner) Run(ctx context.Context) error {
	for _, stage := range r.stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Printf("startup: %s", stage.Name)
		if err := stage.Run(ctx); err != nil {
			return fmt.Errorf("startup stage %q: %w", stage.Name, err)
		}
		r.ran = append(r.ran, stage.Name)
	}
	return nil
}

// Completed lists the stages that ran successfully, in order.
func (r *Runner) Completed() []string {
	return append([]string(nil), r.ran...)
}
