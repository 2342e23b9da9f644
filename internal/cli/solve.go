package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	perrors "github.com/matzehuels/printqueue/pkg/errors"
	"github.com/matzehuels/printqueue/pkg/pipeline"
)

// Output formats for solve.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	part     int    // 0 prints both parts
	strategy string // tie-break strategy: stack, queue, sorted
	workers  int    // concurrent update scoring
	format   string // text, json, yaml
	noCache  bool   // bypass the result cache entirely
	refresh  bool   // recompute and overwrite the cached result
	watch    bool   // re-solve whenever the input file changes
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	opts := solveOpts{format: formatText}

	cmd := &cobra.Command{
		Use:   "solve [file|-]",
		Short: "Sum the middle pages of correct and reordered updates",
		Long: `Solve reads ordering rules and updates, then prints:

  part 1  the sum of middle pages of updates that already follow the rules
  part 2  the sum of middle pages of the other updates after reordering

Input is read from the named file, or from stdin when the file is "-" or
omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.part != 0 && opts.part != 1 && opts.part != 2 {
				return perrors.New(perrors.ErrCodeInvalidInput, "--part must be 1 or 2")
			}
			if err := perrors.ValidateFormat(opts.format); err != nil {
				return err
			}
			opts.format = strings.ToLower(opts.format)
			path := inputPath(args)
			if opts.watch && path == stdinName {
				return perrors.New(perrors.ErrCodeInvalidInput, "--watch needs an input file")
			}
			return c.runSolve(cmd, path, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.part, "part", "p", 0, "print only part 1 or part 2")
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "", "tie-break strategy: stack (default), queue, sorted")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "number of updates scored concurrently")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, json, yaml")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite the cached result")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "re-solve whenever the input file changes")

	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, path string, opts solveOpts) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, opts.noCache, nil)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	popts := c.pipelineOptions(cmd, opts.strategy, opts.workers)
	popts.Refresh = opts.refresh

	once := func() error {
		data, err := readInput(path, cmd.InOrStdin())
		if err != nil {
			return err
		}
		prog := newProgress(loggerFromContext(ctx))
		res, err := runner.Run(ctx, data, popts)
		if err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Solved %d updates", res.Updates))
		return writeResult(c.out, res, opts)
	}

	if err := once(); err != nil {
		if !opts.watch {
			return err
		}
		c.reportError(err)
	}
	if !opts.watch {
		return nil
	}

	printInfo(c.out, "Watching %s (Ctrl+C to stop)", path)
	err = watchFile(ctx, path, once, c.reportError)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// reportError prints a non-fatal error, used while watching.
func (c *CLI) reportError(err error) {
	printError(c.out, "%s", perrors.UserMessage(err))
	c.Logger.Debug("solve failed", "code", perrors.GetCode(err), "err", err)
}

// partView is the serialized form of a single-part result.
type partView struct {
	Part   int    `json:"part" yaml:"part"`
	Answer uint64 `json:"answer" yaml:"answer"`
}

func writeResult(w io.Writer, res *pipeline.Result, opts solveOpts) error {
	var v any = res
	if opts.part != 0 {
		answer := res.Part1
		if opts.part == 2 {
			answer = res.Part2
		}
		v = partView{Part: opts.part, Answer: answer}
	}

	switch opts.format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		enc.SetIndent(2)
		return enc.Encode(v)
	}

	if pv, ok := v.(partView); ok {
		_, err := fmt.Fprintln(w, pv.Answer)
		return err
	}
	correct := len(res.Correct())
	printSuccess(w, "Solved %d updates (%d correct, %d reordered)", res.Updates, correct, res.Updates-correct)
	printKeyValue(w, "part 1", fmt.Sprint(res.Part1))
	printKeyValue(w, "part 2", fmt.Sprint(res.Part2))
	printStats(w, res.Rules, res.Updates, res.Cached)
	return nil
}
