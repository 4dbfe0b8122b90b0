package cli

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/algoviz/pkg/errors"
	"github.com/matzehuels/algoviz/pkg/scenario"
	"github.com/matzehuels/algoviz/pkg/structure"
	"github.com/matzehuels/algoviz/pkg/viz"
)

// defaultRecordTick keeps recording fast; playback uses the configured tick.
const defaultRecordTick = time.Millisecond

// recordOpts holds the command-line flags for the record command.
type recordOpts struct {
	keys   string        // keys to insert, in order
	search string        // keys to search for after inserting
	remove string        // keys to remove after searching
	name   string        // scenario display name
	id     string        // document ID (random when empty)
	output string        // output file, "-" for stdout
	format string        // json or yaml; inferred from output when empty
	tick   time.Duration // ticker period while recording
	save   bool          // also put the document into the configured store
}

func (c *CLI) recordCommand() *cobra.Command {
	opts := recordOpts{tick: defaultRecordTick}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record binary search tree operations as a scenario",
		Example: `  algoviz record --keys 5,3,8,1,4 -o demo.json
  algoviz record --keys 5,3,8 --search 4 --remove 3 -o demo.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRecord(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.keys, "keys", "k", "", "comma-separated keys to insert (required)")
	cmd.Flags().StringVar(&opts.search, "search", "", "comma-separated keys to search for")
	cmd.Flags().StringVar(&opts.remove, "remove", "", "comma-separated keys to remove")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "scenario name")
	cmd.Flags().StringVar(&opts.id, "id", "", "document id (default: random UUID)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "document format: json, yaml (default: from extension)")
	cmd.Flags().DurationVar(&opts.tick, "tick", opts.tick, "animation tick while recording")
	cmd.Flags().BoolVar(&opts.save, "save", false, "also store the document in the configured store")
	_ = cmd.MarkFlagRequired("keys")

	return cmd
}

func (c *CLI) runRecord(cmd *cobra.Command, opts *recordOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.config()
	if err != nil {
		return err
	}
	inserts, err := parseKeys(opts.keys)
	if err != nil {
		return err
	}
	searches, err := parseKeys(opts.search)
	if err != nil {
		return err
	}
	removes, err := parseKeys(opts.remove)
	if err != nil {
		return err
	}
	format, err := documentFormat(opts.format, opts.output)
	if err != nil {
		return err
	}

	tree := structure.NewTree(cfg.TreeOptions()...)
	for _, k := range inserts {
		if _, err := tree.AddNode(k); err != nil {
			return err
		}
	}
	sopts := []scenario.Option{scenario.WithName(opts.name)}
	if opts.id != "" {
		if err := errors.ValidateDocumentID(opts.id); err != nil {
			return err
		}
		sopts = append(sopts, scenario.WithID(opts.id))
	}
	sc := scenario.New(tree, sopts...)

	prog := newProgress(logger)
	spin := newSpinner("Recording")
	spin.Start(ctx)
	err = record(ctx, tree, sc, opts.tick, func(op string, k viz.Key) {
		spin.SetMessage("%s %s (%d commands)", op, k, sc.Len())
		logger.Debug("Operation", "op", op, "key", k, "commands", sc.Len())
	}, inserts, searches, removes)
	spin.Stop()
	if err != nil {
		return err
	}
	sc.Stop()
	prog.done("Recorded scenario")

	var buf bytes.Buffer
	if err := sc.Export(&buf, format); err != nil {
		return err
	}
	if err := writeOutput(opts.output, cmd.OutOrStdout(), buf.Bytes()); err != nil {
		return err
	}

	if opts.save {
		if err := c.saveDocument(ctx, sc); err != nil {
			return err
		}
	}

	if opts.output != "" && opts.output != "-" {
		printSuccess("Recorded %s commands", StyleNumber.Render(strconv.Itoa(sc.Len())))
		printStats(tree.Len(), sc.Len(), sc.Cursor())
		printDetail("id %s", sc.ID())
		printFile(opts.output)
		printNextStep("Play it", "algoviz play "+opts.output)
	}
	return nil
}

// record runs the operations against tree while a ticker animates it.
func record(ctx context.Context, tree *structure.Tree, rec viz.Recorder, tick time.Duration,
	onOp func(op string, k viz.Key), inserts, searches, removes []viz.Key) error {
	tickCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = viz.NewTicker(tree, tick).Run(tickCtx)
	}()
	defer func() {
		stop()
		<-done
	}()

	for _, k := range inserts {
		onOp("insert", k)
		if err := tree.Insert(ctx, rec, k); err != nil {
			return err
		}
	}
	for _, k := range searches {
		onOp("search", k)
		if _, err := tree.Search(rec, k); err != nil {
			return err
		}
	}
	for _, k := range removes {
		onOp("remove", k)
		if err := tree.Remove(ctx, rec, k); err != nil {
			return err
		}
	}
	return nil
}

// saveDocument puts the scenario into the configured store as JSON.
func (c *CLI) saveDocument(ctx context.Context, sc *scenario.Scenario) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	var buf bytes.Buffer
	if err := sc.Export(&buf, scenario.FormatJSON); err != nil {
		return err
	}
	if err := st.Put(ctx, sc.ID(), buf.Bytes()); err != nil {
		return err
	}
	printSuccess("Stored as %s", StyleValue.Render(sc.ID()))
	return nil
}

// parseKeys parses a comma-separated key list. Duplicates are rejected
// because every key names exactly one node.
func parseKeys(s string) ([]viz.Key, error) {
	parts := splitList(s)
	keys := make([]viz.Key, 0, len(parts))
	seen := make(map[viz.Key]bool, len(parts))
	for _, p := range parts {
		k, err := viz.ParseKey(p)
		if err != nil {
			return nil, err
		}
		if k.IsNone() || k == structure.Header {
			return nil, errors.New(errors.ErrCodeInvalidInput, "key %q cannot name a node", p)
		}
		if seen[k] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate key %s", k)
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys, nil
}
