package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/goeditable/pkg/selection"
)

// ErrCommandNotFound indicates the requested command name resolved to nothing.
var ErrCommandNotFound = errors.New("command not found")

// Result describes one command dispatch.
type Result struct {
	// RegionID is the region the command ran against.
	RegionID string

	// Command is the canonical name of the executed command.
	Command string

	// Before is the selection exported ahead of the command; nil when the
	// region had no active selection.
	Before *selection.Snapshot

	// After is the selection exported once dispatch finished; nil when no
	// selection is active afterwards.
	After *selection.Snapshot

	// SelectionRestored is true when a pre-command selection was imported
	// back against the mutated tree.
	SelectionRestored bool
}

// Exec dispatches a command against a region, carrying the selection across
// whatever the command does to the subtree:
//
//  1. Export the region's selection to durable offsets.
//  2. Apply the command (arbitrary DOM mutation).
//  3. Import the offsets against the mutated tree.
//
// The name may be a registered alias. A failed command still gets step 3 (it
// may have half-mutated the region before erroring) and its error comes back
// wrapped. EventCommandExecuted fires after a successful apply,
// EventSelectionRestored when step 3 succeeded.
func (e *Editor) Exec(ctx context.Context, regionID, name string, args map[string]any) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("dispatch cancelled: %w", ctx.Err())
	default:
	}

	region, ok := e.regions[regionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRegionNotFound, regionID)
	}
	canonical, cmd, ok := e.registry.Resolve(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCommandNotFound, name)
	}

	before := e.codec.Export(region.root, region.sel)

	cc := NewContext(ctx, region, args)
	cc.Logger = e.logger
	cc.Registry = e.registry

	applyErr := cmd.Apply(cc)

	restored := false
	if before != nil {
		restored = e.codec.Import(region.root, region.sel, before)
		if !restored {
			// Never leave ranges pointing at nodes the command detached.
			region.sel.RemoveAllRanges()
		}
	}

	if applyErr != nil {
		return nil, fmt.Errorf("command %s: %w", canonical, applyErr)
	}

	result := &Result{
		RegionID:          regionID,
		Command:           canonical,
		Before:            before,
		After:             e.codec.Export(region.root, region.sel),
		SelectionRestored: restored,
	}

	e.events.Emit(Event{Type: EventCommandExecuted, RegionID: regionID, Command: canonical})
	if restored {
		e.events.Emit(Event{Type: EventSelectionRestored, RegionID: regionID, Snapshot: result.After})
	}
	e.logf("command executed",
		"region", regionID, "command", canonical, "restored", restored)

	return result, nil
}
