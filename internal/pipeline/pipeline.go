// Package pipeline computes the ordered list of update sets that exist on a
// source instance but not on a target instance.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/conn-castle/snset/internal/messages"
	"github.com/conn-castle/snset/internal/reconcile"
	"github.com/conn-castle/snset/internal/updateset"
)

// Source reads update sets from instances. *servicenow.Client implements it.
type Source interface {
	CompleteUpdateSets(ctx context.Context, instance string) ([]updateset.Record, error)
	InstallOrder(ctx context.Context, instance string, names []string) ([]updateset.Record, error)
	NewInstallOrder(ctx context.Context, instance string, names []string) ([]updateset.Record, error)
}

// Request names the instances to compare.
type Request struct {
	Source string
	Target string
}

// Result holds the outcome of a run.
type Result struct {
	SourceCount int
	TargetCount int
	// Missing is the source-only update set names, in source order.
	Missing []string
	// Ordered holds the committed update sets, in commit order.
	Ordered []updateset.Record
	// New holds update sets created on the source that were never
	// committed there, in last-updated order.
	New []updateset.Record
}

// Records returns the install order: committed sets followed by new ones.
func (r *Result) Records() []updateset.Record {
	out := make([]updateset.Record, 0, len(r.Ordered)+len(r.New))
	out = append(out, r.Ordered...)
	return append(out, r.New...)
}

// Run fetches both instances, diffs them, and resolves the install order of
// the difference. Progress is written to log.
func Run(ctx context.Context, src Source, req Request, log io.Writer) (*Result, error) {
	if log == nil {
		log = io.Discard
	}
	_, _ = fmt.Fprintf(log, messages.RunBeginFmt, req.Source, req.Target)

	_, _ = fmt.Fprintln(log, messages.RunSourceSetsBegin)
	sourceSets, err := src.CompleteUpdateSets(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	_, _ = fmt.Fprintf(log, messages.RunSourceSetsFmt, len(sourceSets))

	_, _ = fmt.Fprintln(log, messages.RunTargetSetsBegin)
	targetSets, err := src.CompleteUpdateSets(ctx, req.Target)
	if err != nil {
		return nil, err
	}
	_, _ = fmt.Fprintf(log, messages.RunTargetSetsFmt, len(targetSets))

	_, _ = fmt.Fprintln(log, messages.RunComputeDiff)
	missing, err := reconcile.Diff(updateset.Names(sourceSets), updateset.Names(targetSets))
	if err != nil {
		return nil, err
	}
	result := &Result{
		SourceCount: len(sourceSets),
		TargetCount: len(targetSets),
		Missing:     missing,
	}
	if len(missing) == 0 {
		_, _ = fmt.Fprintf(log, messages.RunNothingToInstallFmt, req.Source, req.Target)
		return result, nil
	}

	_, _ = fmt.Fprintf(log, messages.RunInstallOrderFmt, len(missing))
	result.Ordered, err = src.InstallOrder(ctx, req.Source, missing)
	if err != nil {
		return nil, err
	}

	newSets := missing
	if len(result.Ordered) > 0 {
		newSets, err = reconcile.Diff(missing, updateset.Names(result.Ordered))
		if err != nil {
			return nil, err
		}
	}
	if len(newSets) == 0 {
		return result, nil
	}

	_, _ = fmt.Fprintf(log, messages.RunNewSetsFmt, len(newSets))
	result.New, err = src.NewInstallOrder(ctx, req.Source, newSets)
	if err != nil {
		return nil, err
	}
	return result, nil
}
